package dataset

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"table-pump/internal/errs"
)

// Compression is the container format of a CSV file.
type Compression string

const (
	Uncompressed Compression = ""
	Gzip         Compression = "gzip"
	Bzip2        Compression = "bzip2"
	XZ           Compression = "xz"
	Zstd         Compression = "zstd"
)

var magics = []struct {
	c     Compression
	magic []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Bzip2, []byte("BZh")},
	{XZ, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
}

// CompressionOf picks the compression from a file extension.
func CompressionOf(name string) Compression {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return Gzip
	case ".bz2":
		return Bzip2
	case ".xz":
		return XZ
	case ".zst", ".zstd":
		return Zstd
	}
	return Uncompressed
}

// decompress sniffs the stream header and unwraps a compressed stream. The
// returned close func releases decoder resources, not r.
func decompress(r io.Reader) (io.Reader, func() error, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(6)
	nop := func() error { return nil }
	for _, m := range magics {
		if !bytes.HasPrefix(head, m.magic) {
			continue
		}
		switch m.c {
		case Gzip:
			zr, err := gzip.NewReader(br)
			if err != nil {
				return nil, nil, err
			}
			return zr, zr.Close, nil
		case Bzip2:
			return bzip2.NewReader(br), nop, nil
		case XZ:
			xr, err := xz.NewReader(br)
			if err != nil {
				return nil, nil, err
			}
			return xr, nop, nil
		case Zstd:
			zr, err := zstd.NewReader(br)
			if err != nil {
				return nil, nil, err
			}
			return zr, func() error { zr.Close(); return nil }, nil
		}
	}
	return br, nop, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// compressor wraps w in an encoder. Closing the result flushes the encoder
// but leaves w open.
func compressor(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case Uncompressed:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case XZ:
		return xz.NewWriter(w)
	case Zstd:
		return zstd.NewWriter(w)
	case Bzip2:
		return nil, errs.Configf("bzip2 output is not supported")
	}
	return nil, errs.Configf("unknown compression %q", c)
}
