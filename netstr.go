package recstream

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Record is one legacy key/value pair. Both slices are owned by the caller
// once returned and never aliased by the decoder's buffer.
type Record struct {
	Key   []byte
	Value []byte
}

// lenLookahead bounds the search for a field's length terminator: an ASCII
// decimal length plus its trailing space fit in 11 bytes.
const lenLookahead = 11

// netstrReader decodes the legacy wire format: per record two fields of
// "<ASCII decimal length><space><raw bytes><delimiter byte>". The declared
// stream size must be known; decoding continues while fewer than that many
// bytes have been consumed.
type netstrReader struct {
	r      io.Reader
	source string
	size   int64

	buf []byte
	idx int
	tot int64
	err error
}

func newNetstrReader(r io.Reader, source string, size int64, head []byte) (*netstrReader, error) {
	if size <= 0 {
		return nil, truncatedf(source, 0, "content length must be known for a legacy stream")
	}
	d := &netstrReader{r: r, source: source, size: size}
	d.buf = append(d.buf, head...)
	return d, nil
}

// Next decodes one record. io.EOF ends the sequence once the declared size
// has been consumed.
func (d *netstrReader) Next() (Record, error) {
	if d.err != nil {
		return Record{}, d.err
	}
	if d.tot >= d.size {
		d.err = io.EOF
		return Record{}, io.EOF
	}
	key, err := d.field()
	if err != nil {
		d.err = err
		return Record{}, err
	}
	val, err := d.field()
	if err != nil {
		d.err = err
		return Record{}, err
	}
	return Record{Key: key, Value: val}, nil
}

// field parses one length-prefixed field and advances the cursor past its
// value and the single delimiter byte that follows it.
func (d *netstrReader) field() ([]byte, error) {
	if d.buffered() < lenLookahead {
		// Opportunistic refill: a source fault only matters once the
		// buffered bytes are exhausted.
		ferr := d.fill(defaultBufferSize)
		if d.buffered() == 0 && ferr != nil {
			return nil, ferr
		}
	}
	if d.buffered() == 0 {
		// Clean end-of-source short of the declared size.
		return nil, truncatedf(d.source, uint64(d.tot),
			"expected %d bytes, got %d", d.size, d.tot)
	}

	end := d.idx + lenLookahead
	if end > len(d.buf) {
		end = len(d.buf)
	}
	sp := bytes.IndexByte(d.buf[d.idx:end], ' ')
	if sp < 0 {
		return nil, corruptedf(d.source, uint64(d.tot),
			"could not parse a value length at %d bytes", d.tot)
	}
	n, err := strconv.Atoi(string(d.buf[d.idx : d.idx+sp]))
	if err != nil || n < 0 {
		return nil, corruptedf(d.source, uint64(d.tot),
			"could not parse a value length at %d bytes", d.tot)
	}
	d.tot += int64(sp) + 1
	d.idx += sp + 1

	if d.buffered() < n+1 {
		ferr := d.fill(n + defaultBufferSize + 1)
		if d.buffered() < n+1 {
			if ferr != nil {
				return nil, ferr
			}
			return nil, truncatedf(d.source, uint64(d.tot),
				"expected a value of %d bytes (offset %d bytes)", n+1, d.tot)
		}
	}
	v := cloneBytes(d.buf[d.idx : d.idx+n])
	d.tot += int64(n) + 1
	d.idx += n + 1
	return v, nil
}

func (d *netstrReader) buffered() int {
	return len(d.buf) - d.idx
}

// fill compacts the buffer and reads up to n more bytes from the source.
// Stopping early at end-of-source is normal; any other read error is a
// source fault and is returned as-is.
func (d *netstrReader) fill(n int) error {
	d.buf = append(d.buf[:0], d.buf[d.idx:]...)
	d.idx = 0
	p := make([]byte, n)
	k, err := io.ReadFull(d.r, p)
	d.buf = append(d.buf, p[:k]...)
	if err != nil && !isEOF(err) {
		return fmt.Errorf("recstream: read %s: %w", d.source, err)
	}
	return nil
}

// AppendNetstr appends the legacy encoding of one record to dst:
// "<len(key)> <key> <len(value)> <value>\n".
func AppendNetstr(dst []byte, key, value []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(key)), 10)
	dst = append(dst, ' ')
	dst = append(dst, key...)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(len(value)), 10)
	dst = append(dst, ' ')
	dst = append(dst, value...)
	return append(dst, '\n')
}

// NetstrWriter encodes records in the legacy wire format.
type NetstrWriter struct {
	w   io.Writer
	buf []byte
}

func NewNetstrWriter(w io.Writer) *NetstrWriter {
	return &NetstrWriter{w: w}
}

func (nw *NetstrWriter) Write(rec Record) error {
	nw.buf = AppendNetstr(nw.buf[:0], rec.Key, rec.Value)
	_, err := nw.w.Write(nw.buf)
	return err
}
