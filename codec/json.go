package codec

import (
	"bytes"
	"encoding/json"
)

// JSON is a Codec that serializes objects as a stream of JSON values, one
// per line. The newline keeps adjacent bare literals (numbers, booleans)
// from running together in the payload.
type JSON[V any] struct{}

var _ Codec[int] = JSON[int]{}

func (JSON[V]) Append(dst []byte, v V) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return dst, err
	}
	dst = append(dst, b...)
	return append(dst, '\n'), nil
}

func (JSON[V]) Decoder(payload []byte) Decoder[V] {
	dec := json.NewDecoder(bytes.NewReader(payload))
	return decoderFunc[V](func() (V, error) {
		var v V
		err := dec.Decode(&v) // io.EOF at end of payload
		return v, err
	})
}
