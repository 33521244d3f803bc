package recstream

import (
	"io"
	"regexp"
)

// TokenizerOptions tune a Tokenizer. The zero value is usable when the
// source size is unknown.
type TokenizerOptions struct {
	// Source is an opaque input label carried into errors and diagnostics.
	Source string
	// Size is the declared input size in bytes; <= 0 means unknown. When
	// known, reading stops at Size bytes and falling short of it is a
	// Truncated fault.
	Size int64
	// BufferSize is the per-refill read size; 0 => 8 KiB.
	BufferSize int
	// OutputTail controls the tail policy: when true, unmatched bytes left
	// at end-of-source are yielded verbatim as a final one-element token.
	// When false they are discarded with a warning through Logger. Use true
	// for formats that tolerate a missing final delimiter.
	OutputTail bool
	// Logger receives the discarded-tail diagnostic; nil disables it.
	Logger Logger
}

// Tokenizer is a generic incremental matcher: it grows an internal buffer
// from a forward-only source and emits matches of a caller-supplied pattern
// as soon as they occur at the buffer head. It is the building block for
// arbitrary text-oriented record readers.
//
// The pattern is matched anchored at the buffer start. No match at the head
// is not an error, only "need more bytes": the buffer keeps growing until a
// match appears or the source is exhausted. A pattern that can never match
// therefore buffers the whole input and resolves through the tail policy
// instead of failing fast; kept for compatibility with existing readers,
// fragile as it is.
type Tokenizer struct {
	r    io.Reader
	re   *regexp.Regexp
	opts TokenizerOptions
	log  Logger

	buf  []byte
	tot  int64
	done bool // source exhausted or declared size reached
	err  error
}

// NewTokenizer returns a Tokenizer over r emitting capture-group tuples of
// pattern. The sequence is lazy, finite and non-restartable.
func NewTokenizer(r io.Reader, pattern *regexp.Regexp, opts TokenizerOptions) *Tokenizer {
	return &Tokenizer{
		r:    r,
		re:   pattern,
		opts: opts,
		log:  coalesce[Logger](opts.Logger, NopLogger{}),
	}
}

// Next returns the capture groups of the next match, or the whole match for
// a pattern without groups. The final token may be the unmatched tail when
// OutputTail is set. io.EOF ends the sequence; a *DataError terminates it.
func (t *Tokenizer) Next() ([][]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	for {
		if tok, ok := t.match(); ok {
			return tok, nil
		}
		if t.done {
			return t.finish()
		}
		if err := t.refill(); err != nil {
			t.err = err
			return nil, err
		}
	}
}

// match attempts the pattern at the buffer head and consumes it on success.
// Zero-length matches are treated as no match so the buffer always shrinks.
func (t *Tokenizer) match() ([][]byte, bool) {
	m := t.re.FindSubmatchIndex(t.buf)
	if m == nil || m[0] != 0 || m[1] == 0 {
		return nil, false
	}
	var tok [][]byte
	if t.re.NumSubexp() == 0 {
		tok = [][]byte{cloneBytes(t.buf[m[0]:m[1]])}
	} else {
		tok = make([][]byte, 0, t.re.NumSubexp())
		for g := 1; g <= t.re.NumSubexp(); g++ {
			lo, hi := m[2*g], m[2*g+1]
			if lo < 0 {
				tok = append(tok, nil)
				continue
			}
			tok = append(tok, cloneBytes(t.buf[lo:hi]))
		}
	}
	t.buf = t.buf[m[1]:]
	return tok, true
}

func (t *Tokenizer) refill() error {
	n := coalesce(t.opts.BufferSize, defaultBufferSize)
	if t.opts.Size > 0 {
		if rem := t.opts.Size - t.tot; rem < int64(n) {
			n = int(rem)
		}
	}
	if n <= 0 {
		t.done = true
		return nil
	}
	p := make([]byte, n)
	k, err := t.r.Read(p)
	if k > 0 {
		t.buf = append(t.buf, p[:k]...)
		t.tot += int64(k)
	}
	switch {
	case err == io.EOF || k == 0 && err == nil:
		// An empty read is end-of-input per the source contract.
		t.done = true
	case err != nil:
		return err
	case t.opts.Size > 0 && t.tot >= t.opts.Size:
		t.done = true
	}
	return nil
}

// finish applies the termination rules once the source is exhausted and no
// further match is possible.
func (t *Tokenizer) finish() ([][]byte, error) {
	if t.opts.Size > 0 && t.tot < t.opts.Size {
		t.err = truncatedf(t.opts.Source, uint64(t.tot),
			"expected %d bytes, got %d", t.opts.Size, t.tot)
		return nil, t.err
	}
	if len(t.buf) > 0 {
		tail := t.buf
		t.buf = nil
		if t.opts.OutputTail {
			t.err = io.EOF
			return [][]byte{tail}, nil
		}
		t.log.Warn("recstream.unmatched_tail", Fields{
			"source": t.opts.Source,
			"bytes":  len(tail),
		})
	}
	t.err = io.EOF
	return nil, io.EOF
}

func cloneBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}

var lineRe = regexp.MustCompile("(.*?)\n")

// LineTokenizer yields each line of input, newline stripped. A final line
// without a trailing newline is accepted and yielded as-is.
type LineTokenizer struct {
	t *Tokenizer
}

func NewLineTokenizer(r io.Reader, opts TokenizerOptions) *LineTokenizer {
	opts.OutputTail = true
	return &LineTokenizer{t: NewTokenizer(r, lineRe, opts)}
}

// Next returns the next line; io.EOF ends the sequence.
func (l *LineTokenizer) Next() ([]byte, error) {
	tok, err := l.t.Next()
	if err != nil {
		return nil, err
	}
	return tok[0], nil
}
