package recstream

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"
	"iter"
	"math"

	"github.com/klauspost/compress/zlib"

	"github.com/unkn0wn-root/recstream/codec"
	"github.com/unkn0wn-root/recstream/internal/wire"
)

// Options tune a Reader. Codec is required; everything else has a usable
// zero value.
type Options[V any] struct {
	// Source is an opaque input label (e.g. a URL) carried into every
	// DataError and diagnostic.
	Source string

	// Size is the declared input size in bytes; <= 0 means unknown. Legacy
	// streams cannot be decoded without it.
	Size int64

	// Codec decodes the objects inside chunk payloads.
	Codec codec.Codec[V]

	// IgnoreCorrupt downgrades a chunk checksum or decompression failure
	// from fatal to "skip this chunk's records". It never suppresses
	// Truncated or malformed-header faults.
	IgnoreCorrupt bool

	// LegacyRecord converts a legacy netstr pair into V when the stream
	// turns out to be legacy-format. If nil and V is Record, the pair is
	// passed through; for any other V a legacy stream is an error.
	LegacyRecord func(Record) (V, error)

	// Logger receives skip diagnostics; nil disables logging.
	Logger Logger
}

// Reader decodes one record stream. It is the single decode entry point:
// the first byte of the source selects between the legacy netstr format and
// the chunked container, so task output written years apart decodes through
// the same call.
//
// A Reader is lazy, finite and non-restartable. It is not safe for
// concurrent use; the buffer and cursor belong to the one in-flight pass.
type Reader[V any] struct {
	r    io.Reader
	opts Options[V]
	log  Logger

	started bool
	legacy  *netstrReader
	payload codec.Decoder[V]
	offset  uint64
	err     error
}

// Open returns a Reader over r. No bytes are consumed until the first Next.
func Open[V any](r io.Reader, opts Options[V]) (*Reader[V], error) {
	if r == nil {
		return nil, fmt.Errorf("recstream: source is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("recstream: codec is required")
	}
	return &Reader[V]{
		r:    r,
		opts: opts,
		log:  coalesce[Logger](opts.Logger, NopLogger{}),
	}, nil
}

// Next returns the next decoded record. io.EOF ends the sequence; a
// *DataError, or a source read fault passed through as-is, terminates it
// with no partial record. An empty source is an empty sequence, not an
// error.
func (s *Reader[V]) Next() (V, error) {
	var zero V
	if s.err != nil {
		return zero, s.err
	}
	for {
		if s.legacy != nil {
			rec, err := s.legacy.Next()
			if err != nil {
				s.err = err
				return zero, err
			}
			return s.convertLegacy(rec)
		}
		if s.payload != nil {
			v, err := s.payload.Next()
			if err == nil {
				return v, nil
			}
			if err != io.EOF {
				// The chunk passed verification, so a decode failure
				// here is malformed object data, not a short read.
				s.err = corruptedf(s.opts.Source, s.offset, "object decode: %v", err)
				return zero, s.err
			}
			s.payload = nil
		}
		if err := s.nextChunk(); err != nil {
			s.err = err
			return zero, err
		}
	}
}

// All returns the remaining records as a single-use iterator. A terminal
// decode fault is yielded as the final element's error; io.EOF is not.
func (s *Reader[V]) All() iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		for {
			v, err := s.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				var zero V
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

func (s *Reader[V]) convertLegacy(rec Record) (V, error) {
	var zero V
	if s.opts.LegacyRecord != nil {
		v, err := s.opts.LegacyRecord(rec)
		if err != nil {
			s.err = err
			return zero, err
		}
		return v, nil
	}
	if v, ok := any(rec).(V); ok {
		return v, nil
	}
	s.err = fmt.Errorf("recstream: legacy stream %s requires a LegacyRecord adapter for %T", s.opts.Source, zero)
	return zero, s.err
}

// nextChunk consumes one chunk: marker byte, header, payload, verification.
// On success s.payload is primed; on a skipped chunk it stays nil and the
// caller loops. io.EOF means the stream ended cleanly.
func (s *Reader[V]) nextChunk() error {
	var mb [1]byte
	if _, err := io.ReadFull(s.r, mb[:]); err != nil {
		if isEOF(err) {
			// End-of-source at a chunk boundary ends the stream.
			return io.EOF
		}
		return fmt.Errorf("recstream: read %s: %w", s.opts.Source, err)
	}
	marker := mb[0]
	if wire.IsLegacy(marker) {
		if !s.started {
			nr, err := newNetstrReader(s.r, s.opts.Source, s.opts.Size, mb[:])
			if err != nil {
				return err
			}
			s.legacy = nr
			s.started = true
			return nil
		}
		return corruptedf(s.opts.Source, s.offset, "bad chunk marker 0x%02x", marker)
	}
	s.started = true

	var hb [wire.HeaderSize]byte
	if _, err := io.ReadFull(s.r, hb[:]); err != nil {
		if !isEOF(err) {
			return fmt.Errorf("recstream: read %s: %w", s.opts.Source, err)
		}
		return truncatedf(s.opts.Source, s.offset, "truncated data at %d bytes", s.offset)
	}
	hdr, err := wire.DecodeHeader(hb[:])
	if err != nil {
		return truncatedf(s.opts.Source, s.offset, "truncated data at %d bytes", s.offset)
	}
	if hdr.Length == 0 {
		return io.EOF // terminal chunk
	}

	// The length field is untrusted until the chunk checksums clean, so it
	// cannot size an allocation on its own. Reject lengths the source could
	// not possibly hold, then read incrementally: a short source ends the
	// copy and the chunk fails verification below.
	if hdr.Length > math.MaxInt64 || (s.opts.Size > 0 && hdr.Length > uint64(s.opts.Size)) {
		return corruptedf(s.opts.Source, s.offset, "bad chunk length %d", hdr.Length)
	}
	var pb bytes.Buffer
	pb.Grow(int(min(hdr.Length, maxChunkPrealloc)))
	if _, err := io.CopyN(&pb, s.r, int64(hdr.Length)); err != nil && !isEOF(err) {
		return fmt.Errorf("recstream: read %s: %w", s.opts.Source, err)
	}
	chunk := pb.Bytes()

	// A short payload read surfaces through verification below: the exact
	// byte count could not be obtained, so the chunk cannot checksum clean.
	data, verr := verifyChunk(chunk, hdr)
	start := s.offset
	s.offset += hdr.Length
	if verr != nil {
		if !s.opts.IgnoreCorrupt {
			return corruptedf(s.opts.Source, start,
				"corrupted data between bytes %d-%d: %v", start, start+hdr.Length, verr)
		}
		s.log.Warn("recstream.chunk_skipped", Fields{
			"source": s.opts.Source,
			"start":  start,
			"end":    start + hdr.Length,
			"err":    verr.Error(),
		})
		return nil
	}
	s.payload = s.opts.Codec.Decoder(data)
	return nil
}

// verifyChunk decompresses (if flagged) and checksums a chunk payload.
// The chunk is trusted only as a whole: any failure rejects all of it.
func verifyChunk(chunk []byte, hdr wire.Header) ([]byte, error) {
	data := chunk
	if hdr.Compressed {
		zr, err := zlib.NewReader(bytes.NewReader(chunk))
		if err != nil {
			return nil, err
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, err
		}
		if err := zr.Close(); err != nil {
			return nil, err
		}
	}
	if crc32.ChecksumIEEE(data) != hdr.Checksum {
		return nil, fmt.Errorf("checksum does not match")
	}
	return data, nil
}
