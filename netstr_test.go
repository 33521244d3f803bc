package recstream

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeNetstr(t *testing.T, stream []byte, size int64) ([]Record, error) {
	t.Helper()
	d, err := newNetstrReader(bytes.NewReader(stream), "test-input", size, nil)
	require.NoError(t, err)
	var out []Record
	for {
		rec, err := d.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func TestNetstrSinglePair(t *testing.T) {
	// "3 foo 3 bar\n" with a declared size below the wire length still
	// decodes the record whose first byte lies inside the declared range.
	stream := AppendNetstr(nil, []byte("foo"), []byte("bar"))
	require.Equal(t, "3 foo 3 bar\n", string(stream))

	recs, err := decodeNetstr(t, stream, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, Record{Key: []byte("foo"), Value: []byte("bar")}, recs[0])
}

func TestNetstrRoundTrip(t *testing.T) {
	pairs := []Record{
		{Key: []byte("k"), Value: []byte("v")},
		{Key: nil, Value: []byte("empty key")},
		{Key: []byte("has space"), Value: nil},
		{Key: bytes.Repeat([]byte("x"), 20000), Value: []byte("big")},
		{Key: []byte{0, 1, 2}, Value: []byte{0xff, 0xfe}},
	}
	var stream []byte
	for _, p := range pairs {
		stream = AppendNetstr(stream, p.Key, p.Value)
	}

	recs, err := decodeNetstr(t, stream, int64(len(stream)))
	require.NoError(t, err)
	require.Equal(t, pairs, recs)
}

func TestNetstrWriter(t *testing.T) {
	var buf bytes.Buffer
	nw := NewNetstrWriter(&buf)
	require.NoError(t, nw.Write(Record{Key: []byte("a"), Value: []byte("bc")}))
	require.NoError(t, nw.Write(Record{Key: []byte("d"), Value: []byte("e")}))
	assert.Equal(t, "1 a 2 bc\n1 d 1 e\n", buf.String())
}

func TestNetstrTruncatedStream(t *testing.T) {
	stream := AppendNetstr(nil, []byte("foo"), []byte("bar"))

	// Declared size exceeds available bytes: fails after the full record.
	recs, err := decodeNetstr(t, stream, int64(len(stream))+5)
	var derr *DataError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, Truncated, derr.Kind)
	assert.Len(t, recs, 1)

	// Cut mid-value: no partial record surfaces.
	recs, err = decodeNetstr(t, stream[:4], int64(len(stream)))
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, Truncated, derr.Kind)
	assert.Empty(t, recs)
}

func TestNetstrCorruptLength(t *testing.T) {
	cases := map[string]string{
		"no space":    "xxxxxxxxxxxxxxxx",
		"non numeric": "ab cdefghij",
		"negative":    "-3 foobarbaz",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeNetstr(t, []byte(in), int64(len(in)))
			var derr *DataError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, Corrupted, derr.Kind)
		})
	}
}

func TestNetstrSourceErrorSurfaces(t *testing.T) {
	stream := AppendNetstr(nil, []byte("foo"), []byte("bar"))

	// The source fails after one full record, short of the declared size.
	// That is an I/O fault, not truncated data.
	fault := errors.New("connection reset by peer")
	d, err := newNetstrReader(&faultReader{r: bytes.NewReader(stream), err: fault},
		"net", int64(len(stream))+5, nil)
	require.NoError(t, err)

	rec, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, Record{Key: []byte("foo"), Value: []byte("bar")}, rec)

	_, err = d.Next()
	require.ErrorIs(t, err, fault)
	var derr *DataError
	assert.False(t, errors.As(err, &derr))
}

func TestNetstrRequiresDeclaredSize(t *testing.T) {
	_, err := newNetstrReader(bytes.NewReader(nil), "u", 0, nil)
	var derr *DataError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, Truncated, derr.Kind)
}
