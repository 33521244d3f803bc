// Package wire defines the binary layout of the chunked stream format.
//
// Every chunk starts with a one-byte marker whose high bit is set (the low
// seven bits carry an informational format version), followed by a fixed
// 13-byte header and the chunk payload. A first stream byte without the high
// bit belongs to the legacy netstr format instead.
package wire

import (
	"encoding/binary"
	"errors"
)

const (
	// HeaderSize is the fixed chunk header length, marker excluded.
	HeaderSize = 13

	// markerBit distinguishes chunk markers from legacy stream bytes.
	markerBit = 0x80
)

var ErrShortHeader = errors.New("wire: short chunk header")

// Header is the per-chunk metadata that follows the marker byte.
// Checksum covers the decompressed payload. Length == 0 is the terminal
// chunk.
type Header struct {
	Compressed bool
	Checksum   uint32
	Length     uint64
}

// Marker returns the chunk marker byte for a format version.
func Marker(version byte) byte {
	return markerBit | (version & 0x7f)
}

// IsLegacy reports whether a stream's first byte belongs to a legacy
// netstr stream rather than a chunk marker.
func IsLegacy(b byte) bool {
	return b < markerBit
}

// Version extracts the format tag from a marker byte.
func Version(marker byte) byte {
	return marker &^ markerBit
}

// AppendHeader appends the 13-byte encoding of h to dst.
// Layout: compressed(1) | checksum(u32 le) | length(u64 le).
func AppendHeader(dst []byte, h Header) []byte {
	var c byte
	if h.Compressed {
		c = 1
	}
	var u4 [4]byte
	var u8 [8]byte
	binary.LittleEndian.PutUint32(u4[:], h.Checksum)
	binary.LittleEndian.PutUint64(u8[:], h.Length)

	dst = append(dst, c)
	dst = append(dst, u4[:]...)
	dst = append(dst, u8[:]...)
	return dst
}

// DecodeHeader parses a 13-byte chunk header.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	return Header{
		Compressed: b[0] != 0,
		Checksum:   binary.LittleEndian.Uint32(b[1:5]),
		Length:     binary.LittleEndian.Uint64(b[5:13]),
	}, nil
}
