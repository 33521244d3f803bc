package recstream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/recstream/codec"
	"github.com/unkn0wn-root/recstream/internal/wire"
)

func TestWriterEmptyStream(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter[string](&buf, codec.Msgpack[string]{}, WriterOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Just the terminal chunk.
	require.Equal(t, 1+wire.HeaderSize, buf.Len())
	hdr, err := wire.DecodeHeader(buf.Bytes()[1:])
	require.NoError(t, err)
	assert.Equal(t, wire.Header{}, hdr)

	got, err := decodeStream(t, buf.Bytes(), Options[string]{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriterVersionMarker(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter[string](&buf, codec.Msgpack[string]{}, WriterOptions{Version: 3})
	require.NoError(t, err)
	require.NoError(t, w.Write("x"))
	require.NoError(t, w.Close())

	marker := buf.Bytes()[0]
	assert.False(t, wire.IsLegacy(marker))
	assert.EqualValues(t, 3, wire.Version(marker))
}

func TestWriterVersionZeroMeansDefault(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter[string](&buf, codec.Msgpack[string]{}, WriterOptions{Version: 0})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.EqualValues(t, defaultVersion, wire.Version(buf.Bytes()[0]))
}

func TestWriterStoreLeavesPayloadReadable(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter[string](&buf, codec.Msgpack[string]{}, WriterOptions{CompressLevel: 0})
	require.NoError(t, err)
	require.NoError(t, w.Write("plain"))
	require.NoError(t, w.Close())

	hdr, err := wire.DecodeHeader(buf.Bytes()[1:])
	require.NoError(t, err)
	assert.False(t, hdr.Compressed)
	assert.Contains(t, string(buf.Bytes()[1+wire.HeaderSize:]), "plain")
}

func TestWriterCompressionShrinksPayload(t *testing.T) {
	big := bytes.Repeat([]byte("recstream "), 500)

	encode := func(level int) int {
		var buf bytes.Buffer
		w, err := NewWriter[[]byte](&buf, codec.Bytes{}, WriterOptions{CompressLevel: level})
		require.NoError(t, err)
		require.NoError(t, w.Write(big))
		require.NoError(t, w.Close())
		return buf.Len()
	}
	assert.Less(t, encode(6), encode(0))
}

func TestWriterClosedIsTerminal(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter[string](&buf, codec.Msgpack[string]{}, WriterOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Error(t, w.Write("late"))
	assert.Error(t, w.Flush())
	assert.NoError(t, w.Close()) // idempotent
	assert.Equal(t, 1+wire.HeaderSize, buf.Len())
}

func TestWriterRejectsBadLevel(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter[string](&buf, codec.Msgpack[string]{}, WriterOptions{CompressLevel: 12})
	require.Error(t, err)
}
