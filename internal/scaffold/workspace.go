package scaffold

import (
	"path/filepath"
	"strings"

	"github.com/monokit-dev/monokit/internal/archive"
	"github.com/monokit-dev/monokit/internal/config"
	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/spf13/afero"
)

// AppStatus is the outcome of checking an application directory. The numeric
// values double as process exit codes for the archive command.
type AppStatus int

const (
	AppExists       AppStatus = 0
	AppMissing      AppStatus = 1
	ManifestMissing AppStatus = 2
)

func (s AppStatus) String() string {
	switch s {
	case AppExists:
		return "exists"
	case AppMissing:
		return "missing"
	case ManifestMissing:
		return "manifest missing"
	default:
		return "unknown"
	}
}

// Workspace locates applications and templates inside one repository.
type Workspace struct {
	FS           afero.Fs
	Root         string
	AppsDir      string // absolute
	TemplatesDir string // absolute
	IgnoreFile   string // absolute
	ManifestFile string // file name inside each application
}

// NewWorkspace builds a Workspace from resolved settings.
func NewWorkspace(fs afero.Fs, s *config.Settings) *Workspace {
	return &Workspace{
		FS:           fs,
		Root:         s.Root,
		AppsDir:      s.AppsDir,
		TemplatesDir: s.TemplatesDir,
		IgnoreFile:   s.IgnoreFile,
		ManifestFile: s.ManifestFile,
	}
}

// AppPath returns the directory of the named application.
func (w *Workspace) AppPath(name string) string {
	return filepath.Join(w.AppsDir, name)
}

// ManifestPath returns the manifest location of the named application.
func (w *Workspace) ManifestPath(name string) string {
	return filepath.Join(w.AppPath(name), w.ManifestFile)
}

// TemplatePath returns where a template archive of the given name and format
// is stored.
func (w *Workspace) TemplatePath(name string, format archive.Format) string {
	return filepath.Join(w.TemplatesDir, name+format.Ext())
}

// ValidateApp reports whether the named application directory and its
// manifest exist.
func (w *Workspace) ValidateApp(name string) AppStatus {
	if ok, _ := afero.DirExists(w.FS, w.AppPath(name)); !ok {
		return AppMissing
	}
	if ok, _ := afero.Exists(w.FS, w.ManifestPath(name)); !ok {
		return ManifestMissing
	}
	return AppExists
}

// validateName rejects names that would resolve outside their parent
// directory.
func validateName(kind, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.Newf(errors.ErrInvalidInput, "%s name is required", kind)
	case name == "." || name == "..":
		return errors.Newf(errors.ErrInvalidInput, "invalid %s name %q", kind, name)
	case strings.ContainsAny(name, `/\`):
		return errors.Newf(errors.ErrInvalidInput, "%s name %q must not contain path separators", kind, name)
	}
	return nil
}
