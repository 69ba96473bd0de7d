package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/monokit-dev/monokit/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Entry is one item in an archive.
type Entry struct {
	Name  string // slash-separated stored name
	Mode  fs.FileMode
	IsDir bool

	open func() (io.ReadCloser, error)
}

// Open returns the entry's decompressed content. The stream is only valid
// until the next call to Reader.Next.
func (e *Entry) Open() (io.ReadCloser, error) {
	if e.IsDir {
		return nil, fmt.Errorf("%s is a directory", e.Name)
	}
	return e.open()
}

// Reader iterates archive entries one at a time. Next returns io.EOF after
// the last entry.
type Reader interface {
	Next() (*Entry, error)
	Close() error
}

// OpenReader opens the archive at path, choosing the format from its suffix.
func OpenReader(fsys afero.Fs, path string) (Reader, error) {
	format, ok := FormatFromName(path)
	if !ok {
		return nil, errors.Newf(errors.ErrArchiveRead, "unrecognised archive type: %s", path)
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveRead, "opening archive %s", path)
	}

	var r Reader
	switch format {
	case FormatZip:
		r, err = newZipReader(f)
	case FormatTarGz:
		r, err = newTarGzReader(f)
	case FormatTarZst:
		r, err = newTarZstReader(f)
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, errors.ErrArchiveRead, "reading archive %s", path)
	}
	return r, nil
}

type zipReader struct {
	file  afero.File
	zr    *zip.Reader
	index int
}

func newZipReader(f afero.File) (*zipReader, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, err
	}
	return &zipReader{file: f, zr: zr}, nil
}

func (z *zipReader) Next() (*Entry, error) {
	if z.index >= len(z.zr.File) {
		return nil, io.EOF
	}
	zf := z.zr.File[z.index]
	z.index++

	return &Entry{
		Name:  zf.Name,
		Mode:  zf.Mode(),
		IsDir: strings.HasSuffix(zf.Name, "/"),
		open:  zf.Open,
	}, nil
}

func (z *zipReader) Close() error {
	return z.file.Close()
}

type tarReader struct {
	file   afero.File
	decomp io.Closer
	tr     *tar.Reader
	logger zerolog.Logger
}

func newTarGzReader(f afero.File) (*tarReader, error) {
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	return newTarReader(f, gz, gz), nil
}

func newTarZstReader(f afero.File) (*tarReader, error) {
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	rc := dec.IOReadCloser()
	return newTarReader(f, rc, rc), nil
}

func newTarReader(f afero.File, r io.Reader, decomp io.Closer) *tarReader {
	return &tarReader{
		file:   f,
		decomp: decomp,
		tr:     tar.NewReader(r),
		logger: logging.GetLogger("archive"),
	}
}

func (t *tarReader) Next() (*Entry, error) {
	for {
		hdr, err := t.tr.Next()
		if err != nil {
			return nil, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			name := hdr.Name
			if !strings.HasSuffix(name, "/") {
				name += "/"
			}
			return &Entry{Name: name, Mode: hdr.FileInfo().Mode(), IsDir: true}, nil
		case tar.TypeReg:
			return &Entry{
				Name: hdr.Name,
				Mode: hdr.FileInfo().Mode(),
				open: func() (io.ReadCloser, error) { return io.NopCloser(t.tr), nil },
			}, nil
		default:
			t.logger.Warn().
				Str("entry", hdr.Name).
				Str("type", string(hdr.Typeflag)).
				Msg("Skipping unsupported tar entry")
		}
	}
}

func (t *tarReader) Close() error {
	derr := t.decomp.Close()
	if err := t.file.Close(); err != nil {
		return err
	}
	return derr
}
