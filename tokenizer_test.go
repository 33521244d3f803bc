package recstream

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oneByteReader returns at most one byte per Read to exercise short reads.
type oneByteReader struct{ r io.Reader }

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

func collectTokens(t *testing.T, tk *Tokenizer) [][][]byte {
	t.Helper()
	var out [][][]byte
	for {
		tok, err := tk.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, tok)
	}
}

func TestTokenizerOutputTail(t *testing.T) {
	tk := NewTokenizer(strings.NewReader("a\nb\nc"), regexp.MustCompile("(.*?)\n"),
		TokenizerOptions{OutputTail: true})

	got := collectTokens(t, tk)
	require.Len(t, got, 3)
	assert.Equal(t, []byte("a"), got[0][0])
	assert.Equal(t, []byte("b"), got[1][0])
	assert.Equal(t, []byte("c"), got[2][0]) // unmatched tail, yielded verbatim

	_, err := tk.Next()
	assert.Equal(t, io.EOF, err)
}

func TestTokenizerDiscardsTail(t *testing.T) {
	tk := NewTokenizer(strings.NewReader("a\nb\nc"), regexp.MustCompile("(.*?)\n"),
		TokenizerOptions{})

	got := collectTokens(t, tk)
	require.Len(t, got, 2)
	assert.Equal(t, []byte("a"), got[0][0])
	assert.Equal(t, []byte("b"), got[1][0])
}

func TestTokenizerShortReads(t *testing.T) {
	src := oneByteReader{strings.NewReader("one\ntwo\nthree\n")}
	tk := NewTokenizer(src, regexp.MustCompile("(.*?)\n"), TokenizerOptions{BufferSize: 4})

	got := collectTokens(t, tk)
	require.Len(t, got, 3)
	assert.Equal(t, []byte("one"), got[0][0])
	assert.Equal(t, []byte("two"), got[1][0])
	assert.Equal(t, []byte("three"), got[2][0])
}

func TestTokenizerTruncated(t *testing.T) {
	tk := NewTokenizer(strings.NewReader("a\nb\n"), regexp.MustCompile("(.*?)\n"),
		TokenizerOptions{Size: 10, Source: "part-1"})

	_, err := tk.Next()
	require.NoError(t, err)
	_, err = tk.Next()
	require.NoError(t, err)

	_, err = tk.Next()
	var derr *DataError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, Truncated, derr.Kind)
	assert.Equal(t, "part-1", derr.Source)

	// terminal: the error sticks
	_, err2 := tk.Next()
	assert.Equal(t, err, err2)
}

func TestTokenizerStopsAtDeclaredSize(t *testing.T) {
	// 4 declared bytes out of 8 available: the second line is never read.
	tk := NewTokenizer(strings.NewReader("a\nb\nc\nd\n"), regexp.MustCompile("(.*?)\n"),
		TokenizerOptions{Size: 4})

	got := collectTokens(t, tk)
	require.Len(t, got, 2)
	assert.Equal(t, []byte("a"), got[0][0])
	assert.Equal(t, []byte("b"), got[1][0])
}

func TestTokenizerNoGroupsYieldsWholeMatch(t *testing.T) {
	tk := NewTokenizer(strings.NewReader("xxyy"), regexp.MustCompile("x|y"),
		TokenizerOptions{})

	got := collectTokens(t, tk)
	require.Len(t, got, 4)
	assert.Equal(t, []byte("x"), got[0][0])
	assert.Equal(t, []byte("y"), got[3][0])
}

// A pattern that never matches is not an error: the tokenizer buffers the
// whole input and resolves through the tail policy.
func TestTokenizerNeverMatchingPattern(t *testing.T) {
	tk := NewTokenizer(strings.NewReader("no delimiters here"), regexp.MustCompile("(.*?);"),
		TokenizerOptions{OutputTail: true})

	got := collectTokens(t, tk)
	require.Len(t, got, 1)
	assert.Equal(t, []byte("no delimiters here"), got[0][0])
}

func TestTokenizerTokensAreCopies(t *testing.T) {
	tk := NewTokenizer(bytes.NewReader([]byte("aa\nbb\n")), regexp.MustCompile("(.*?)\n"),
		TokenizerOptions{})

	first, err := tk.Next()
	require.NoError(t, err)
	want := append([]byte(nil), first[0]...)
	_, err = tk.Next()
	require.NoError(t, err)
	assert.Equal(t, want, first[0])
}

func TestLineTokenizer(t *testing.T) {
	lt := NewLineTokenizer(strings.NewReader("first\nsecond\nlast"), TokenizerOptions{})

	var lines []string
	for {
		line, err := lt.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		lines = append(lines, string(line))
	}
	assert.Equal(t, []string{"first", "second", "last"}, lines)
}
