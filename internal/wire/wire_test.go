package wire

import (
	"math"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	cases := []Header{
		{},
		{Compressed: true, Checksum: 0xDEADBEEF, Length: 1},
		{Compressed: false, Checksum: 1, Length: math.MaxUint64},
	}
	for _, want := range cases {
		enc := AppendHeader(nil, want)
		if len(enc) != HeaderSize {
			t.Fatalf("encoded header is %d bytes, want %d", len(enc), HeaderSize)
		}
		got, err := DecodeHeader(enc)
		if err != nil {
			t.Fatalf("DecodeHeader error: %v", err)
		}
		if got != want {
			t.Fatalf("header mismatch: got %+v want %+v", got, want)
		}
	}
}

func TestDecodeHeaderShort(t *testing.T) {
	enc := AppendHeader(nil, Header{Length: 10})
	for i := 0; i < HeaderSize; i++ {
		if _, err := DecodeHeader(enc[:i]); err == nil {
			t.Fatalf("expected error on %d-byte header", i)
		}
	}
}

func TestMarker(t *testing.T) {
	for _, v := range []byte{0, 1, 0x7f} {
		m := Marker(v)
		if IsLegacy(m) {
			t.Fatalf("marker 0x%02x classified as legacy", m)
		}
		if got := Version(m); got != v {
			t.Fatalf("version mismatch: got %d want %d", got, v)
		}
	}
	for _, b := range []byte{0, '0', ' ', 0x7f} {
		if !IsLegacy(b) {
			t.Fatalf("byte 0x%02x should be legacy", b)
		}
	}
}
