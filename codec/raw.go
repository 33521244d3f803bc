package codec

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Bytes is a Codec for raw byte slices. Since a bare []byte is not
// self-delimiting, each object is framed with a u32 little-endian length.
// Useful when records are already serialized and only the chunked
// container's checksumming and compression are wanted.
type Bytes struct{}

var _ Codec[[]byte] = Bytes{}

func (Bytes) Append(dst []byte, v []byte) ([]byte, error) {
	var u4 [4]byte
	binary.LittleEndian.PutUint32(u4[:], uint32(len(v)))
	dst = append(dst, u4[:]...)
	return append(dst, v...), nil
}

func (Bytes) Decoder(payload []byte) Decoder[[]byte] {
	rest := payload
	return decoderFunc[[]byte](func() ([]byte, error) {
		if len(rest) == 0 {
			return nil, io.EOF
		}
		if len(rest) < 4 {
			return nil, fmt.Errorf("codec: truncated byte frame: %d bytes left", len(rest))
		}
		n := int(binary.LittleEndian.Uint32(rest))
		if n > len(rest)-4 {
			return nil, fmt.Errorf("codec: byte frame of %d bytes exceeds payload (%d left)", n, len(rest)-4)
		}
		v := rest[4 : 4+n]
		rest = rest[4+n:]
		return v, nil
	})
}

// String is a Codec for Go strings, framed like Bytes. By convention this
// assumes UTF-8 and performs no validation.
type String struct{}

var _ Codec[string] = String{}

func (String) Append(dst []byte, v string) ([]byte, error) {
	return Bytes{}.Append(dst, []byte(v))
}

func (String) Decoder(payload []byte) Decoder[string] {
	dec := Bytes{}.Decoder(payload)
	return decoderFunc[string](func() (string, error) {
		b, err := dec.Next()
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
}
