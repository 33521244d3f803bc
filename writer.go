package recstream

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/unkn0wn-root/recstream/codec"
	"github.com/unkn0wn-root/recstream/internal/wire"
)

// WriterOptions tune a Writer.
type WriterOptions struct {
	// Version is the informational format tag recorded in each chunk
	// marker. The zero value selects the current default tag (1); version
	// 0 itself is not writable through this field, which keeps the 0x80
	// marker free for streams that need an explicit pre-versioning tag.
	Version byte

	// CompressLevel selects zlib compression for chunk payloads:
	// 0 stores payloads verbatim, 1-9 compress (zlib levels).
	CompressLevel int

	// MinChunkSize is the buffered-bytes threshold that triggers a chunk
	// flush; 0 => 1 MiB.
	MinChunkSize int
}

// Writer encodes a record stream in the chunked container format. Objects
// are serialized through the codec and buffered; whenever the buffer
// reaches MinChunkSize a chunk is cut, checksummed over its uncompressed
// bytes, optionally compressed, and written out. Close flushes what is left
// and appends the terminal zero-length chunk; without it the stream is not
// well-formed.
//
// A Writer is not safe for concurrent use.
type Writer[V any] struct {
	w    io.Writer
	c    codec.Codec[V]
	opts WriterOptions

	buf    []byte // pending payload, uncompressed
	out    []byte // scratch for the framed chunk
	closed bool
}

func NewWriter[V any](w io.Writer, c codec.Codec[V], opts WriterOptions) (*Writer[V], error) {
	if w == nil {
		return nil, fmt.Errorf("recstream: sink is required")
	}
	if c == nil {
		return nil, fmt.Errorf("recstream: codec is required")
	}
	if opts.CompressLevel < 0 || opts.CompressLevel > 9 {
		return nil, fmt.Errorf("recstream: compress level %d out of range", opts.CompressLevel)
	}
	opts.Version = coalesce(opts.Version, defaultVersion)
	opts.MinChunkSize = coalesce(opts.MinChunkSize, defaultMinChunkSize)
	return &Writer[V]{w: w, c: c, opts: opts}, nil
}

// Write appends one record to the stream.
func (w *Writer[V]) Write(v V) error {
	if w.closed {
		return fmt.Errorf("recstream: write on closed writer")
	}
	buf, err := w.c.Append(w.buf, v)
	if err != nil {
		return err
	}
	w.buf = buf
	if len(w.buf) >= w.opts.MinChunkSize {
		return w.flushChunk()
	}
	return nil
}

// Flush forces any buffered records out as a chunk. Calling it between
// records only affects chunk boundaries, never decoded content.
func (w *Writer[V]) Flush() error {
	if w.closed {
		return fmt.Errorf("recstream: flush on closed writer")
	}
	return w.flushChunk()
}

// Close flushes pending records and writes the terminal chunk. The
// underlying sink is left open; it belongs to the caller.
func (w *Writer[V]) Close() error {
	if w.closed {
		return nil
	}
	if err := w.flushChunk(); err != nil {
		return err
	}
	w.closed = true
	w.out = appendMarker(w.out[:0], w.opts.Version, wire.Header{})
	_, err := w.w.Write(w.out)
	return err
}

func (w *Writer[V]) flushChunk() error {
	if len(w.buf) == 0 {
		return nil
	}
	// Checksum always covers the uncompressed bytes; the decode side
	// verifies after decompression.
	sum := crc32.ChecksumIEEE(w.buf)

	payload := w.buf
	compressed := false
	if w.opts.CompressLevel > 0 {
		var zbuf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&zbuf, w.opts.CompressLevel)
		if err != nil {
			return err
		}
		if _, err := zw.Write(w.buf); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		payload = zbuf.Bytes()
		compressed = true
	}

	w.out = appendMarker(w.out[:0], w.opts.Version, wire.Header{
		Compressed: compressed,
		Checksum:   sum,
		Length:     uint64(len(payload)),
	})
	w.out = append(w.out, payload...)
	if _, err := w.w.Write(w.out); err != nil {
		return err
	}
	w.buf = w.buf[:0]
	return nil
}

func appendMarker(dst []byte, version byte, hdr wire.Header) []byte {
	dst = append(dst, wire.Marker(version))
	return wire.AppendHeader(dst, hdr)
}
