package archive

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/monokit-dev/monokit/internal/logging"
	"github.com/spf13/afero"
)

const defaultFileMode fs.FileMode = 0644

// Extract unpacks the archive at archivePath under destRoot. Entries are
// handled strictly one after another. Any failure aborts the extraction;
// files already written are left for the caller to clean up.
func Extract(fsys afero.Fs, archivePath, destRoot string) (*Stats, error) {
	logger := logging.GetLogger("archive")
	done := logging.LogOperationStart(logger, "extract")
	defer done()

	r, err := OpenReader(fsys, archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	stats := &Stats{}
	for {
		entry, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, errors.Wrapf(err, errors.ErrArchiveRead, "reading entry from %s", archivePath)
		}

		target, err := safeJoin(destRoot, entry.Name)
		if err != nil {
			return stats, err
		}

		if entry.IsDir {
			if err := fsys.MkdirAll(target, 0755); err != nil {
				return stats, errors.Wrapf(err, errors.ErrArchiveRead, "creating directory %s", target)
			}
			continue
		}

		n, err := extractFile(fsys, entry, target)
		if err != nil {
			return stats, errors.Wrapf(err, errors.ErrArchiveRead, "extracting %s", entry.Name).
				WithDetail("entry", entry.Name)
		}
		stats.Files++
		stats.RawBytes += n
		logger.Trace().Str("entry", entry.Name).Int64("bytes", n).Msg("Extracted file")
	}

	if info, err := fsys.Stat(archivePath); err == nil {
		stats.Bytes = info.Size()
	}
	logger.Debug().
		Str("archive", archivePath).
		Str("dest", destRoot).
		Int("files", stats.Files).
		Msg("Archive extracted")
	return stats, nil
}

func extractFile(fsys afero.Fs, entry *Entry, target string) (int64, error) {
	if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, err
	}

	src, err := entry.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	perm := entry.Mode.Perm()
	if perm == 0 {
		perm = defaultFileMode
	}

	out, err := fsys.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, src)
	if err != nil {
		out.Close()
		return n, err
	}
	return n, out.Close()
}

// safeJoin resolves an archive entry name under root and rejects names that
// would land outside it.
func safeJoin(root, name string) (string, error) {
	unsafe := func() error {
		return errors.Newf(errors.ErrUnsafePath, "archive entry %q escapes the destination", name).
			WithDetail("entry", name)
	}

	if name == "" || path.IsAbs(name) || filepath.IsAbs(name) || strings.Contains(name, `\`) {
		return "", unsafe()
	}

	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", unsafe()
	}
	return target, nil
}

// ReadFile returns the content of the entry called name, pulling entries until
// it is found. The error wraps fs.ErrNotExist when the entry is absent.
func ReadFile(fsys afero.Fs, archivePath, name string) ([]byte, error) {
	r, err := OpenReader(fsys, archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	want := path.Clean(name)
	for {
		entry, err := r.Next()
		if stderrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s in %s: %w", name, archivePath, fs.ErrNotExist)
		}
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrArchiveRead, "reading entry from %s", archivePath)
		}
		if entry.IsDir || path.Clean(entry.Name) != want {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrArchiveRead, "opening %s", name)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrArchiveRead, "reading %s", name)
		}
		return data, nil
	}
}
