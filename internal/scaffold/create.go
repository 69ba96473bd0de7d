package scaffold

import (
	"github.com/monokit-dev/monokit/internal/archive"
	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/monokit-dev/monokit/internal/logging"
	"github.com/monokit-dev/monokit/internal/manifest"
)

// Selector picks one template label from candidates.
type Selector interface {
	Select(candidates []string) (string, error)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(candidates []string) (string, error)

// Select calls f.
func (f SelectorFunc) Select(candidates []string) (string, error) {
	return f(candidates)
}

// CreateResult describes a newly instantiated application.
type CreateResult struct {
	AppPath  string
	Template Template
	Manifest *manifest.Manifest
	Stats    *archive.Stats
}

// Instantiate creates the application appName from a template. templateName
// is used when it names an available template; otherwise selector is asked.
// The destination must not exist beforehand, and it is removed again if any
// later step fails.
func (w *Workspace) Instantiate(appName, templateName string, selector Selector) (result *CreateResult, err error) {
	logger := logging.GetLogger("scaffold")
	done := logging.LogOperationStart(logger, "instantiate")
	defer done()

	if err := validateName("application", appName); err != nil {
		return nil, err
	}
	appPath := w.AppPath(appName)
	if w.ValidateApp(appName) != AppMissing {
		return nil, errors.Newf(errors.ErrAppExists, "application %q already exists", appName).
			WithDetail("path", appPath)
	}

	templates, err := w.ListTemplates()
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, errors.Newf(errors.ErrNoTemplates, "no templates found in %s", w.TemplatesDir)
	}

	tmpl, err := w.resolveTemplate(templates, templateName, selector)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("app", appName).Str("template", tmpl.FileName()).Msg("Creating application")

	if err := w.FS.MkdirAll(appPath, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "creating %s", appPath)
	}
	defer func() {
		if err == nil {
			return
		}
		if rmErr := w.FS.RemoveAll(appPath); rmErr != nil {
			logger.Error().Err(rmErr).Str("path", appPath).Msg("Failed to remove partial application")
			return
		}
		logger.Debug().Str("path", appPath).Msg("Removed partial application")
	}()

	stats, err := archive.Extract(w.FS, tmpl.Path, appPath)
	if err != nil {
		return nil, err
	}

	if err := manifest.SetName(w.FS, w.ManifestPath(appName), appName); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "updating %s", w.ManifestFile)
	}
	m, err := manifest.Load(w.FS, w.ManifestPath(appName))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestInvalid, "reading %s", w.ManifestFile)
	}
	logger.Info().Str("app", m.Name).Str("version", manifest.DisplayVersion(m.Version)).Msg("Application created")

	return &CreateResult{AppPath: appPath, Template: tmpl, Manifest: m, Stats: stats}, nil
}

func (w *Workspace) resolveTemplate(templates []Template, name string, selector Selector) (Template, error) {
	if t, ok := findTemplate(templates, name); ok {
		return t, nil
	}
	if selector == nil {
		if name == "" {
			return Template{}, errors.New(errors.ErrInvalidInput, "a template name is required")
		}
		return Template{}, errors.Newf(errors.ErrTemplateNotFound, "template %q not found", name)
	}

	labels := candidateLabels(templates)
	choice, err := selector.Select(labels)
	if err != nil {
		return Template{}, errors.Wrap(err, errors.ErrInvalidInput, "selecting template")
	}
	if t, ok := findTemplate(templates, choice); ok {
		return t, nil
	}
	return Template{}, errors.Newf(errors.ErrTemplateNotFound, "template %q not found", choice).
		WithDetail("candidates", labels)
}
