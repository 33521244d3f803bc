package codec

import "fmt"

// Limit wraps another codec to enforce size ceilings. Append rejects a
// single object whose encoding grows dst by more than MaxObject; Decoder
// rejects a whole payload larger than MaxPayload before decoding anything.
// A ceiling <= 0 disables that check.
//
// Typical use: protect a worker against oversized/malicious records coming
// from an untrusted input.
type Limit[V any] struct {
	// Inner is the underlying codec being wrapped. It must be set.
	Inner Codec[V]
	// MaxObject is the maximum permitted encoded size of one object.
	MaxObject int
	// MaxPayload is the maximum permitted length of an incoming payload.
	MaxPayload int
}

func (c Limit[V]) Append(dst []byte, v V) ([]byte, error) {
	out, err := c.Inner.Append(dst, v)
	if err != nil {
		return dst, err
	}
	if c.MaxObject > 0 && len(out)-len(dst) > c.MaxObject {
		return dst, fmt.Errorf("codec: object too large: %d > %d", len(out)-len(dst), c.MaxObject)
	}
	return out, nil
}

func (c Limit[V]) Decoder(payload []byte) Decoder[V] {
	if c.MaxPayload > 0 && len(payload) > c.MaxPayload {
		err := fmt.Errorf("codec: payload too large: %d > %d", len(payload), c.MaxPayload)
		return decoderFunc[V](func() (V, error) {
			var zero V
			return zero, err
		})
	}
	return c.Inner.Decoder(payload)
}
