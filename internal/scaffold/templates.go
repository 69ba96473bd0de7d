package scaffold

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/monokit-dev/monokit/internal/archive"
	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/monokit-dev/monokit/internal/logging"
	"github.com/monokit-dev/monokit/internal/manifest"
	"github.com/spf13/afero"
)

// Template is an archive found in the templates directory.
type Template struct {
	Name   string // file name without the archive suffix
	Format archive.Format
	Path   string
	Size   int64
}

// FileName returns the template's base file name.
func (t Template) FileName() string {
	return t.Name + t.Format.Ext()
}

// ListTemplates returns the archives in the templates directory ordered by
// name, then by format. A missing directory yields no templates.
func (w *Workspace) ListTemplates() ([]Template, error) {
	infos, err := afero.ReadDir(w.FS, w.TemplatesDir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "reading templates directory %s", w.TemplatesDir)
	}

	var templates []Template
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		format, ok := archive.FormatFromName(info.Name())
		if !ok {
			continue
		}
		templates = append(templates, Template{
			Name:   archive.TrimExt(info.Name()),
			Format: format,
			Path:   filepath.Join(w.TemplatesDir, info.Name()),
			Size:   info.Size(),
		})
	}

	sort.SliceStable(templates, func(i, j int) bool {
		if templates[i].Name != templates[j].Name {
			return templates[i].Name < templates[j].Name
		}
		return formatRank(templates[i].Format) < formatRank(templates[j].Format)
	})
	return templates, nil
}

// Describe reads the manifest packaged inside the template.
func (w *Workspace) Describe(t Template) (*manifest.Manifest, error) {
	data, err := archive.ReadFile(w.FS, t.Path, w.ManifestFile)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrManifestMissing, "template %s has no %s", t.FileName(), w.ManifestFile)
		}
		return nil, err
	}
	return manifest.Parse(data)
}

// candidateLabels returns one selectable label per template. A name shared by
// several formats is listed by file name instead.
func candidateLabels(templates []Template) []string {
	counts := make(map[string]int, len(templates))
	for _, t := range templates {
		counts[t.Name]++
	}

	labels := make([]string, 0, len(templates))
	for _, t := range templates {
		if counts[t.Name] > 1 {
			labels = append(labels, t.FileName())
		} else {
			labels = append(labels, t.Name)
		}
	}
	return labels
}

// findTemplate matches name against template file names first, then bare
// names. A bare name shared by several formats resolves to the first in
// listing order.
func findTemplate(templates []Template, name string) (Template, bool) {
	if name == "" {
		return Template{}, false
	}
	for _, t := range templates {
		if t.FileName() == name {
			return t, true
		}
	}
	for _, t := range templates {
		if t.Name == name {
			if countNamed(templates, name) > 1 {
				logger := logging.GetLogger("scaffold")
				logger.Warn().Str("template", name).Str("using", t.FileName()).
					Msg("Template name matches several archives")
			}
			return t, true
		}
	}
	return Template{}, false
}

func countNamed(templates []Template, name string) int {
	n := 0
	for _, t := range templates {
		if t.Name == name {
			n++
		}
	}
	return n
}

func formatRank(f archive.Format) int {
	for i, candidate := range archive.Formats() {
		if candidate == f {
			return i
		}
	}
	return len(archive.Formats())
}
