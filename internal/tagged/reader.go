package tagged

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxLineSize bounds a single input line. Simulation output lines are a
// few hundred bytes; 1 MiB leaves generous headroom.
const maxLineSize = 1 << 20

// Reader streams entries out of a tagged data file, one per Next call.
//
// The reader is forward-only and single pass: it keeps exactly one
// buffered lookahead tagline together with its 1-based line number so that
// entry errors can report the file range of the bad block. A stream is
// exclusively owned by one Reader; concurrent use is not supported.
//
// A Reader built with NewReader never closes the underlying stream. A
// Reader built with Open owns the file (and any decompressor in front of
// it) and releases it when exhaustion is first detected or on Close,
// whichever comes first.
type Reader struct {
	sc    *bufio.Scanner
	owned []io.Closer // close order: decompressor before file

	tagline   string // buffered lookahead header; valid while not exhausted
	taglineNo int    // 1-based line number of tagline
	lineNo    int    // line number of the last scanned line

	exhausted bool
	closed    bool
	err       error // sticky scan or close failure
}

// NewReader returns a Reader over a caller-owned stream. The caller
// remains responsible for closing it; the Reader never will.
func NewReader(src io.Reader) *Reader {
	return newReader(src, nil)
}

// Open opens the tagged data file at path. Files ending in ".gz" or
// ".zst" are read through the matching decompressor, selected once here
// by suffix alone. The returned Reader owns the file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var src io.Reader = f
	owned := []io.Closer{f}
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		src = zr
		owned = []io.Closer{zr, f}
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		rc := dec.IOReadCloser()
		src = rc
		owned = []io.Closer{rc, f}
	}
	return newReader(src, owned), nil
}

func newReader(src io.Reader, owned []io.Closer) *Reader {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	r := &Reader{sc: sc, owned: owned}
	r.prime()
	return r
}

// prime scans forward to the first tagline, skipping leading prose. Runs
// once at construction.
func (r *Reader) prime() {
	for r.sc.Scan() {
		r.lineNo++
		line := r.sc.Text()
		if strings.HasPrefix(line, "@") {
			r.tagline = line
			r.taglineNo = r.lineNo
			return
		}
	}
	r.finish()
}

// finish records stream exhaustion and releases owned resources exactly
// once. Scan and close failures become the sticky error.
func (r *Reader) finish() {
	r.exhausted = true
	if err := r.sc.Err(); err != nil && r.err == nil {
		r.err = err
	}
	if err := r.release(); err != nil && r.err == nil {
		r.err = err
	}
}

func (r *Reader) release() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var firstErr error
	for _, c := range r.owned {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Next returns the next entry in the stream. It returns io.EOF once all
// entries have been produced; io.EOF is normal termination, not a
// failure. A malformed block yields an EntryError carrying the 1-based
// line range of that block; the next Next call resumes at the following
// tagline.
func (r *Reader) Next() (*Entry, error) {
	if r.exhausted {
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}

	header, headerLine := r.tagline, r.taglineNo
	lastLine := headerLine
	var lines []string
	primed := false
	for r.sc.Scan() {
		r.lineNo++
		line := r.sc.Text()
		if strings.HasPrefix(line, "@") {
			r.tagline = line
			r.taglineNo = r.lineNo
			primed = true
			break
		}
		lines = append(lines, line)
		lastLine = r.lineNo
	}
	if !primed {
		r.finish()
		if r.err != nil {
			return nil, r.err
		}
	}

	entry, err := NewEntry(header, lines)
	if err != nil {
		var ee *EntryError
		if errors.As(err, &ee) {
			return nil, &EntryError{
				StartLine: headerLine,
				EndLine:   lastLine,
				Message:   ee.Message,
				Err:       ee.Err,
			}
		}
		return nil, err
	}
	return entry, nil
}

// ReadAll drains the reader, returning every remaining entry in stream
// order. The first entry error aborts the drain.
func (r *Reader) ReadAll() ([]*Entry, error) {
	var entries []*Entry
	for {
		entry, err := r.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

// Close releases the underlying stream if this Reader owns it. Safe to
// call multiple times; a no-op for caller-supplied streams.
func (r *Reader) Close() error {
	return r.release()
}
