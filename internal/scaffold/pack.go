package scaffold

import (
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/monokit-dev/monokit/internal/archive"
	"github.com/monokit-dev/monokit/internal/collect"
	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/monokit-dev/monokit/internal/ignore"
	"github.com/monokit-dev/monokit/internal/logging"
	"github.com/monokit-dev/monokit/internal/manifest"
)

// PackOptions controls the template archive produced by Pack.
type PackOptions struct {
	Format archive.Format
	Level  int
}

// PackResult describes a finished pack.
type PackResult struct {
	AppPath     string
	ArchivePath string
	RuleCount   int
	Files       int
	Stats       *archive.Stats
	Warnings    []string
}

// Pack archives the named application into the templates directory as
// archiveName (the application name when empty). An existing archive of the
// same name and format is replaced.
func (w *Workspace) Pack(appName, archiveName string, opts PackOptions) (*PackResult, error) {
	logger := logging.GetLogger("scaffold")
	done := logging.LogOperationStart(logger, "pack")
	defer done()

	if err := validateName("application", appName); err != nil {
		return nil, err
	}

	switch w.ValidateApp(appName) {
	case AppMissing:
		return nil, errors.Newf(errors.ErrAppNotFound, "application %q does not exist", appName).
			WithDetail("path", w.AppPath(appName))
	case ManifestMissing:
		return nil, errors.Newf(errors.ErrManifestMissing, "application %q has no %s", appName, w.ManifestFile).
			WithDetail("path", w.ManifestPath(appName))
	}

	if opts.Format == "" {
		opts.Format = archive.FormatZip
	}
	format, err := archive.ParseFormat(string(opts.Format))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid archive format")
	}

	if archiveName == "" {
		archiveName = appName
	}
	archiveName = archive.TrimExt(archiveName)
	if err := validateName("archive", archiveName); err != nil {
		return nil, err
	}

	result := &PackResult{AppPath: w.AppPath(appName)}

	if err := w.FS.MkdirAll(w.TemplatesDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "creating templates directory %s", w.TemplatesDir)
	}

	rules, err := w.loadRules()
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "reading ignore rules")
		}
		msg := fmt.Sprintf("ignore file %s not found, packing every file", w.IgnoreFile)
		logger.Warn().Str("path", w.IgnoreFile).Msg("Ignore file not found")
		result.Warnings = append(result.Warnings, msg)
	}
	matcher := ignore.NewMatcher(rules)
	result.RuleCount = len(matcher.Rules())
	logger.Info().Str("app", appName).Int("rules", result.RuleCount).Msg("Packing application")

	result.Warnings = append(result.Warnings, w.manifestWarnings(appName)...)

	collected, err := collect.Collect(w.FS, result.AppPath, matcher)
	if err != nil {
		return nil, err
	}
	for _, warning := range collected.Warnings {
		result.Warnings = append(result.Warnings, warning.String())
	}
	entries := collected.Sorted()
	result.Files = len(entries)

	result.ArchivePath = w.TemplatePath(archiveName, format)
	stats, err := archive.Write(w.FS, entries, result.ArchivePath, archive.Options{
		Format: format,
		Level:  opts.Level,
	})
	if err != nil {
		return nil, err
	}
	result.Stats = stats

	logger.Info().
		Str("archive", result.ArchivePath).
		Int("files", stats.Files).
		Int64("bytes", stats.Bytes).
		Msg("Template packed")
	return result, nil
}

func (w *Workspace) loadRules() ([]ignore.Rule, error) {
	if w.IgnoreFile == "" {
		return nil, nil
	}
	return ignore.LoadFile(w.FS, w.IgnoreFile)
}

// manifestWarnings reports schema problems in the application manifest.
// They never block packing.
func (w *Workspace) manifestWarnings(appName string) []string {
	result, err := manifest.ValidateFile(w.FS, w.ManifestPath(appName))
	if err != nil {
		return []string{fmt.Sprintf("could not validate %s: %v", w.ManifestFile, err)}
	}
	if result.Valid {
		return nil
	}
	logger := logging.GetLogger("scaffold")
	logger.Warn().
		Str("app", appName).
		Str("schema", result.Summary()).
		Msg("Manifest does not match the package schema")

	warnings := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		warnings = append(warnings, fmt.Sprintf("%s: %s", w.ManifestFile, issue))
	}
	return warnings
}
