// Package compress wraps label files in a compression codec chosen from the
// file name extension.
package compress

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies a stream compression format.
type Codec string

const (
	None Codec = "none"
	Gzip Codec = "gzip"
	Zstd Codec = "zstd"
	LZ4  Codec = "lz4"
)

// Detect picks a codec from the extension of name.
func Detect(name string) Codec {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// NewReader decompresses r with codec c. Closing the result releases the
// decoder but not r.
func NewReader(c Codec, r io.Reader) (io.ReadCloser, error) {
	switch c {
	case Gzip:
		return gzip.NewReader(r)
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// NewWriter compresses into w with codec c. A level of 0 selects the codec
// default; lz4 ignores level. Close flushes the codec but does not close w.
func NewWriter(c Codec, w io.Writer, level int) (io.WriteCloser, error) {
	switch c {
	case Gzip:
		if level == 0 {
			level = gzip.DefaultCompression
		}
		return gzip.NewWriterLevel(w, level)
	case Zstd:
		var opts []zstd.EOption
		if level > 0 {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
		return zstd.NewWriter(w, opts...)
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

// Open opens the file at path and decompresses it according to its name.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := NewReader(Detect(path), f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &stackReadCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
}

// Create creates (or truncates) the file at path and compresses writes
// according to its name.
func Create(path string, level int) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	wc, err := NewWriter(Detect(path), f, level)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &stackWriteCloser{Writer: wc, closers: []io.Closer{wc, f}}, nil
}

// Wrap decompresses rc according to name; closing the result closes rc too.
func Wrap(name string, rc io.ReadCloser) (io.ReadCloser, error) {
	dec, err := NewReader(Detect(name), rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return &stackReadCloser{Reader: dec, closers: []io.Closer{dec, rc}}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type stackReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackReadCloser) Close() error { return closeAll(s.closers) }

type stackWriteCloser struct {
	io.Writer
	closers []io.Closer
}

func (s *stackWriteCloser) Close() error { return closeAll(s.closers) }

// closeAll closes innermost first so codecs flush before the file closes.
func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
