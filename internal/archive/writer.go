package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/monokit-dev/monokit/internal/collect"
	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/monokit-dev/monokit/internal/logging"
	"github.com/spf13/afero"
)

// MaxLevel is the highest compression level and the default.
const MaxLevel = 9

// Options controls archive creation.
type Options struct {
	Format Format // defaults to FormatZip
	Level  int    // 1 (fastest) to 9 (smallest); 0 means MaxLevel
}

// Stats describes a written or extracted archive.
type Stats struct {
	Files    int
	Bytes    int64 // archive size on disk
	RawBytes int64 // total uncompressed file bytes
}

// encoder appends file streams to an archive container.
type encoder interface {
	add(name string, info os.FileInfo, r io.Reader) (int64, error)
	// finish writes trailing metadata and flushes the compressor. It does
	// not close the underlying sink.
	finish() error
}

// Write streams entries into a new archive at dest, replacing any existing
// file. It returns once the archive has been finalized and the sink closed.
// A failed write leaves the partial file in place.
func Write(fs afero.Fs, entries []collect.FileEntry, dest string, opts Options) (*Stats, error) {
	logger := logging.GetLogger("archive")
	done := logging.LogOperationStart(logger, "write")
	defer done()

	if opts.Format == "" {
		opts.Format = FormatZip
	}
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid archive options")
	}
	opts.Format = format
	if opts.Level <= 0 || opts.Level > MaxLevel {
		opts.Level = MaxLevel
	}

	sink, err := fs.Create(dest)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveWrite, "creating archive %s", dest)
	}
	counter := &countingWriter{w: sink}

	enc, err := newEncoder(counter, opts)
	if err != nil {
		sink.Close()
		return nil, errors.Wrapf(err, errors.ErrArchiveWrite, "initializing %s encoder", opts.Format)
	}

	stats := &Stats{}
	for _, entry := range entries {
		n, err := appendFile(fs, enc, entry)
		if err != nil {
			sink.Close()
			return nil, errors.Wrapf(err, errors.ErrArchiveWrite, "adding %s", entry.RelativePath).
				WithDetail("entry", entry.RelativePath)
		}
		stats.Files++
		stats.RawBytes += n
		logger.Trace().Str("entry", entry.RelativePath).Int64("bytes", n).Msg("Appended file")
	}

	if err := enc.finish(); err != nil {
		sink.Close()
		return nil, errors.Wrapf(err, errors.ErrArchiveWrite, "finalizing archive %s", dest)
	}
	if err := sink.Sync(); err != nil {
		sink.Close()
		return nil, errors.Wrapf(err, errors.ErrArchiveWrite, "flushing archive %s", dest)
	}
	if err := sink.Close(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveWrite, "closing archive %s", dest)
	}

	stats.Bytes = counter.n
	logger.Debug().
		Str("archive", dest).
		Str("format", string(opts.Format)).
		Int("files", stats.Files).
		Int64("bytes", stats.Bytes).
		Msg("Archive written")
	return stats, nil
}

func appendFile(fs afero.Fs, enc encoder, entry collect.FileEntry) (int64, error) {
	src, err := fs.Open(entry.AbsolutePath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, err
	}
	return enc.add(entry.RelativePath, info, src)
}

func newEncoder(w io.Writer, opts Options) (encoder, error) {
	switch opts.Format {
	case FormatZip:
		zw := zip.NewWriter(w)
		level := opts.Level
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, level)
		})
		return &zipEncoder{zw: zw}, nil
	case FormatTarGz:
		gz, err := gzip.NewWriterLevel(w, opts.Level)
		if err != nil {
			return nil, err
		}
		return &tarEncoder{tw: tar.NewWriter(gz), comp: gz}, nil
	case FormatTarZst:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstdLevel(opts.Level)))
		if err != nil {
			return nil, err
		}
		return &tarEncoder{tw: tar.NewWriter(zw), comp: zw}, nil
	}
	return nil, fmt.Errorf("no encoder for format %q", opts.Format)
}

// zstdLevel maps the 1-9 scale onto the four zstd encoder presets.
func zstdLevel(level int) zstd.EncoderLevel {
	switch {
	case level <= 2:
		return zstd.SpeedFastest
	case level <= 5:
		return zstd.SpeedDefault
	case level <= 7:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

type zipEncoder struct {
	zw *zip.Writer
}

func (z *zipEncoder) add(name string, info os.FileInfo, r io.Reader) (int64, error) {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return 0, err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := z.zw.CreateHeader(hdr)
	if err != nil {
		return 0, err
	}
	return io.Copy(w, r)
}

func (z *zipEncoder) finish() error {
	return z.zw.Close()
}

type tarEncoder struct {
	tw   *tar.Writer
	comp io.WriteCloser
}

func (t *tarEncoder) add(name string, info os.FileInfo, r io.Reader) (int64, error) {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return 0, err
	}
	hdr.Name = name
	hdr.Uname, hdr.Gname = "", ""

	if err := t.tw.WriteHeader(hdr); err != nil {
		return 0, err
	}
	return io.Copy(t.tw, r)
}

func (t *tarEncoder) finish() error {
	if err := t.tw.Close(); err != nil {
		return err
	}
	return t.comp.Close()
}

// countingWriter tracks how many bytes reach the sink.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
