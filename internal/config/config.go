package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/monokit-dev/monokit/internal/archive"
	"github.com/monokit-dev/monokit/internal/branding"
	"github.com/spf13/viper"
)

const fileType = "yaml"

// Configuration keys.
const (
	KeyAppsDir          = "apps_dir"
	KeyTemplatesDir     = "templates_dir"
	KeyIgnoreFile       = "ignore_file"
	KeyManifestFile     = "manifest_file"
	KeyFormat           = "format"
	KeyCompressionLevel = "compression_level"
	KeyLogFile          = "log_file"
)

var defaultValues = map[string]any{
	KeyAppsDir:          "apps",
	KeyTemplatesDir:     "templates",
	KeyIgnoreFile:       ".gitignore",
	KeyManifestFile:     "package.json",
	KeyFormat:           "zip",
	KeyCompressionLevel: 9,
	KeyLogFile:          "",
}

// Settings is the resolved configuration for one repository root.
// Directory and file paths are absolute.
type Settings struct {
	Root             string `mapstructure:"-"`
	AppsDir          string `mapstructure:"apps_dir"`
	TemplatesDir     string `mapstructure:"templates_dir"`
	IgnoreFile       string `mapstructure:"ignore_file"`
	ManifestFile     string `mapstructure:"manifest_file"`
	Format           string `mapstructure:"format"`
	CompressionLevel int    `mapstructure:"compression_level"`
	LogFile          string `mapstructure:"log_file"`
}

// Keys returns the known configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaultValues))
	for k := range defaultValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a recognised configuration key.
func IsKnownKey(key string) bool {
	_, ok := defaultValues[key]
	return ok
}

// ResolveRoot returns the repository root: the explicit flag value if set,
// then MONOKIT_ROOT, then the current working directory.
func ResolveRoot(flagValue string) (string, error) {
	root := flagValue
	if root == "" {
		root = os.Getenv(branding.EnvVar("root"))
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}
	return abs, nil
}

// FilePath returns the path to the config file for the given repository root.
func FilePath(root string) string {
	return filepath.Join(root, branding.ConfigFile())
}

func newViper(root string) *viper.Viper {
	v := viper.New()
	for k, val := range defaultValues {
		v.SetDefault(k, val)
	}
	v.SetConfigFile(FilePath(root))
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()
	return v
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env still apply.
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// Load reads the config file under root (if any) and the environment, and
// returns the resolved settings.
func Load(root string) (*Settings, error) {
	v := newViper(root)
	if err := readConfig(v); err != nil {
		return nil, err
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	s.Root = root

	if s.CompressionLevel < 1 || s.CompressionLevel > 9 {
		return nil, fmt.Errorf("%s must be between 1 and 9, got %d", KeyCompressionLevel, s.CompressionLevel)
	}
	if s.ManifestFile == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyManifestFile)
	}

	s.AppsDir = absUnder(root, s.AppsDir)
	s.TemplatesDir = absUnder(root, s.TemplatesDir)
	s.IgnoreFile = absUnder(root, s.IgnoreFile)
	if s.LogFile != "" {
		s.LogFile = absUnder(root, s.LogFile)
	}
	return s, nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(root, key string) (string, error) {
	v := newViper(root)
	if err := readConfig(v); err != nil {
		return "", err
	}
	return v.GetString(key), nil
}

// Set writes a config key-value pair to the config file under root. Only
// values already present in the file are kept alongside the new one.
func Set(root, key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %v)", key, Keys())
	}

	normalized, err := normalizeValue(key, value)
	if err != nil {
		return err
	}

	configFile := FilePath(root)

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(fileType)
	if err := readConfig(v); err != nil {
		return err
	}

	v.Set(key, normalized)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// normalizeValue checks value against the rules Load and the archive writer
// apply to key, returning it in the form written to the config file.
func normalizeValue(key, value string) (any, error) {
	switch key {
	case KeyFormat:
		format, err := archive.ParseFormat(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		return string(format), nil
	case KeyCompressionLevel:
		level, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || level < 1 || level > 9 {
			return nil, fmt.Errorf("%s must be an integer between 1 and 9, got %q", key, value)
		}
		return level, nil
	case KeyManifestFile:
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%s must not be empty", key)
		}
	}
	return value, nil
}

func absUnder(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
