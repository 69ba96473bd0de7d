//go:build integration

package integration_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/monokit-dev/monokit/internal/config"
	"github.com/monokit-dev/monokit/internal/scaffold"
	"github.com/spf13/afero"
)

// testRepo is an isolated monorepo on disk.
type testRepo struct {
	Root string
	WS   *scaffold.Workspace
}

// setupRepo creates a repository with a root ignore file and an optional
// config file, then opens its workspace through the real config loader.
func setupRepo(t *testing.T, gitignore, configYAML string) *testRepo {
	t.Helper()

	root := t.TempDir()
	t.Setenv("MONOKIT_ROOT", "")
	if gitignore != "" {
		writeFile(t, filepath.Join(root, ".gitignore"), gitignore)
	}
	if configYAML != "" {
		writeFile(t, filepath.Join(root, ".monokit.yaml"), configYAML)
	}

	settings, err := config.Load(root)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return &testRepo{Root: root, WS: scaffold.NewWorkspace(afero.NewOsFs(), settings)}
}

// seedApp writes files (keyed by slash path) into the named application.
func (r *testRepo) seedApp(t *testing.T, name string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		writeFile(t, filepath.Join(r.WS.AppPath(name), filepath.FromSlash(rel)), content)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// treeFiles returns every regular file under dir keyed by slash path.
func treeFiles(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", dir, err)
	}
	return files
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
