// Package collect walks a template root and gathers the files that belong in
// a template, pruning everything the ignore rules exclude.
package collect

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/monokit-dev/monokit/internal/ignore"
	"github.com/monokit-dev/monokit/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// FileEntry is one file selected for a template.
type FileEntry struct {
	AbsolutePath string // location on disk
	RelativePath string // slash-separated path under the template root; the archive entry name
}

// Warning records a subtree that could not be read. The walk continues past it.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("cannot read directory %s: %v", w.Path, w.Err)
}

// Result holds the outcome of a walk.
type Result struct {
	Entries  []FileEntry
	Warnings []Warning
}

// Sorted returns a copy of the entries ordered by relative path.
func (r *Result) Sorted() []FileEntry {
	out := make([]FileEntry, len(r.Entries))
	copy(out, r.Entries)
	sort.Slice(out, func(i, j int) bool {
		return out[i].RelativePath < out[j].RelativePath
	})
	return out
}

// Collector walks directories on a filesystem.
type Collector struct {
	fs      afero.Fs
	matcher *ignore.Matcher
	logger  zerolog.Logger
}

// New creates a collector. A nil matcher ignores nothing.
func New(fs afero.Fs, matcher *ignore.Matcher) *Collector {
	return &Collector{
		fs:      fs,
		matcher: matcher,
		logger:  logging.GetLogger("collect"),
	}
}

// Collect is a shorthand for New(fs, matcher).Collect(root).
func Collect(fs afero.Fs, root string, matcher *ignore.Matcher) (*Result, error) {
	return New(fs, matcher).Collect(root)
}

// Collect walks root depth-first, one entry at a time. Ignored directories
// are not descended into. Unreadable subdirectories become warnings.
func (c *Collector) Collect(root string) (*Result, error) {
	info, err := c.fs.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrFileAccess, "%s is not a directory", root)
	}

	done := logging.LogOperationStart(c.logger, "collect")
	defer done()

	entries, err := afero.ReadDir(c.fs, root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", root)
	}

	res := &Result{}
	c.walkEntries(root, "", entries, res)

	c.logger.Debug().
		Str("root", root).
		Int("files", len(res.Entries)).
		Int("warnings", len(res.Warnings)).
		Msg("Collection complete")
	return res, nil
}

func (c *Collector) walk(dir, rel string, res *Result) {
	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		c.logger.Warn().Err(err).Str("dir", dir).Msg("Skipping unreadable directory")
		res.Warnings = append(res.Warnings, Warning{Path: dir, Err: err})
		return
	}
	c.walkEntries(dir, rel, entries, res)
}

func (c *Collector) walkEntries(dir, rel string, entries []os.FileInfo, res *Result) {
	for _, entry := range entries {
		absPath := filepath.Join(dir, entry.Name())
		relPath := path.Join(rel, entry.Name())

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := c.fs.Stat(absPath)
			if err != nil {
				c.logger.Debug().Err(err).Str("path", relPath).Msg("Skipping broken symlink")
				continue
			}
			if target.IsDir() {
				c.logger.Debug().Str("path", relPath).Msg("Skipping symlinked directory")
				continue
			}
			info = target
		}

		if c.matcher.Ignored(relPath, info.IsDir()) {
			continue
		}

		if info.IsDir() {
			c.walk(absPath, relPath, res)
			continue
		}

		if !info.Mode().IsRegular() {
			c.logger.Debug().Str("path", relPath).Str("mode", info.Mode().String()).Msg("Skipping special file")
			continue
		}

		res.Entries = append(res.Entries, FileEntry{
			AbsolutePath: absPath,
			RelativePath: relPath,
		})
	}
}
