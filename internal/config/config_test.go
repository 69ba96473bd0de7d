package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()

	s, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, s.Root)
	assert.Equal(t, filepath.Join(root, "apps"), s.AppsDir)
	assert.Equal(t, filepath.Join(root, "templates"), s.TemplatesDir)
	assert.Equal(t, filepath.Join(root, ".gitignore"), s.IgnoreFile)
	assert.Equal(t, "package.json", s.ManifestFile)
	assert.Equal(t, "zip", s.Format)
	assert.Equal(t, 9, s.CompressionLevel)
	assert.Empty(t, s.LogFile)
}

func TestLoadFromFile(t *testing.T) {
	root := t.TempDir()
	content := "apps_dir: packages\nformat: tar.gz\ncompression_level: 5\n"
	require.NoError(t, os.WriteFile(FilePath(root), []byte(content), 0644))

	s, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "packages"), s.AppsDir)
	assert.Equal(t, "tar.gz", s.Format)
	assert.Equal(t, 5, s.CompressionLevel)
}

func TestLoadEnvOverride(t *testing.T) {
	root := t.TempDir()
	t.Setenv("MONOKIT_TEMPLATES_DIR", "/srv/templates")

	s, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "/srv/templates", s.TemplatesDir)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(FilePath(root), []byte("compression_level: 12\n"), 0644))

	_, err := Load(root)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(FilePath(root), []byte("apps_dir: [unterminated\n"), 0644))

	_, err := Load(root)
	assert.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, Set(root, KeyFormat, "tar.zst"))
	require.NoError(t, Set(root, KeyAppsDir, "services"))

	got, err := Get(root, KeyFormat)
	require.NoError(t, err)
	assert.Equal(t, "tar.zst", got)

	s, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "services"), s.AppsDir)
	assert.Equal(t, "tar.zst", s.Format)

	data, err := os.ReadFile(FilePath(root))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "manifest_file")
}

func TestSetUnknownKey(t *testing.T) {
	err := Set(t.TempDir(), "colour", "blue")
	assert.Error(t, err)
}

func TestSetValidatesValues(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		key, value string
	}{
		{KeyFormat, "rar"},
		{KeyCompressionLevel, "42"},
		{KeyCompressionLevel, "0"},
		{KeyCompressionLevel, "fast"},
		{KeyManifestFile, "  "},
	}
	for _, tt := range tests {
		assert.Error(t, Set(root, tt.key, tt.value), "%s=%q", tt.key, tt.value)
	}
	_, err := os.Stat(FilePath(root))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, Set(root, KeyFormat, "TGZ"))
	require.NoError(t, Set(root, KeyCompressionLevel, "3"))

	s, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "tar.gz", s.Format)
	assert.Equal(t, 3, s.CompressionLevel)
}

func TestResolveRoot(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("MONOKIT_ROOT", "/from/env")
		got, err := ResolveRoot("/from/flag")
		require.NoError(t, err)
		assert.Equal(t, "/from/flag", got)
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv("MONOKIT_ROOT", "/from/env")
		got, err := ResolveRoot("")
		require.NoError(t, err)
		assert.Equal(t, "/from/env", got)
	})

	t.Run("working directory", func(t *testing.T) {
		t.Setenv("MONOKIT_ROOT", "")
		wd, err := os.Getwd()
		require.NoError(t, err)
		got, err := ResolveRoot("")
		require.NoError(t, err)
		assert.Equal(t, wd, got)
	})
}
