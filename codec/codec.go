// Package codec defines the pluggable object codec carried inside chunk
// payloads, plus several implementations. Encodings must be self-delimiting:
// a chunk payload is a back-to-back concatenation of encoded objects with no
// outer framing, and the decoder alone owns the object boundaries.
package codec

// Codec encodes and decodes the objects of a chunk payload.
type Codec[V any] interface {
	// Append appends the self-delimiting encoding of v to dst and returns
	// the extended slice.
	Append(dst []byte, v V) ([]byte, error)

	// Decoder returns a decoder positioned at the start of payload. The
	// payload must stay untouched until the decoder is exhausted.
	Decoder(payload []byte) Decoder[V]
}

// Decoder yields consecutive objects from one payload. Next returns io.EOF
// once the payload is exhausted; that sentinel, not a byte count, ends the
// payload.
type Decoder[V any] interface {
	Next() (V, error)
}

// decoderFunc adapts a closure to the Decoder interface.
type decoderFunc[V any] func() (V, error)

func (f decoderFunc[V]) Next() (V, error) { return f() }
