package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack is a Codec that serializes objects using vmihailenco/msgpack/v5.
// The zero value is ready to use. MessagePack values are self-delimiting, so
// encoded objects concatenate directly into a payload.
//
// Msgpack is compact and fast; use `msgpack:"fieldName"` tags if you need
// explicit control over struct encoding.
type Msgpack[V any] struct{}

var _ Codec[int] = Msgpack[int]{}

func (Msgpack[V]) Append(dst []byte, v V) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return dst, err
	}
	return append(dst, b...), nil
}

func (Msgpack[V]) Decoder(payload []byte) Decoder[V] {
	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	return decoderFunc[V](func() (V, error) {
		var v V
		err := dec.Decode(&v) // io.EOF at end of payload
		return v, err
	})
}
