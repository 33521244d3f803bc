package recstream

import (
	"fmt"
	"io"
)

// Kind classifies a data fault.
type Kind uint8

const (
	// Truncated means the declared size was not reached, or a required
	// field or header ended before end-of-source.
	Truncated Kind = iota + 1
	// Corrupted means the bytes that were read are malformed: a bad length
	// prefix, a checksum mismatch, a failed decompression.
	Corrupted
)

func (k Kind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case Corrupted:
		return "corrupted"
	default:
		return "unknown"
	}
}

// DataError is the terminal error for a decode in progress. No partial
// record is ever surfaced alongside it and the codec performs no retry;
// re-running the task elsewhere is the runtime's call.
type DataError struct {
	Kind   Kind
	Source string // opaque input label, e.g. a URL
	Offset uint64 // byte position the fault was detected at
	Detail string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("recstream: %s input from %s at %d bytes: %s",
		e.Kind, e.Source, e.Offset, e.Detail)
}

func truncatedf(source string, offset uint64, format string, args ...any) *DataError {
	return &DataError{Kind: Truncated, Source: source, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func corruptedf(source string, offset uint64, format string, args ...any) *DataError {
	return &DataError{Kind: Corrupted, Source: source, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

// isEOF reports whether err is one of the two end-of-input sentinels. Any
// other read error is a source fault and must surface as-is, never be
// reclassified as a data fault.
func isEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
