package codec

import (
	"bytes"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/proto"
)

// Protodelim is a Codec for protobuf messages using the standard
// varint-delimited framing, which makes the non-self-delimiting protobuf
// encoding safe to concatenate inside a payload.
type Protodelim[T proto.Message] struct {
	new func() T // constructor for a concrete message, e.g. func() *mypb.Task { return &mypb.Task{} }
}

func NewProtodelim[T proto.Message](ctor func() T) Protodelim[T] {
	return Protodelim[T]{new: ctor}
}

func (c Protodelim[T]) Append(dst []byte, v T) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := protodelim.MarshalTo(&buf, v); err != nil {
		return dst, err
	}
	return append(dst, buf.Bytes()...), nil
}

func (c Protodelim[T]) Decoder(payload []byte) Decoder[T] {
	r := bytes.NewReader(payload)
	return decoderFunc[T](func() (T, error) {
		m := c.new()
		if err := protodelim.UnmarshalFrom(r, m); err != nil {
			var zero T
			return zero, err // io.EOF at end of payload
		}
		return m, nil
	})
}
