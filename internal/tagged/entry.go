package tagged

import (
	"regexp"
	"strconv"
	"strings"
)

// taglinePattern is the fixed grammar of a tag header:
// @<name>:<dtype>:<rank>:<shape> with shape present iff rank > 0.
var taglinePattern = regexp.MustCompile(
	`^@([^: ]+)\s*:([^:]+):(\d+):((?:\d+(?:,\d+)*)?)$`)

// Entry is one decoded named value together with its header metadata.
// Entries are immutable once constructed; construction is all-or-nothing.
type Entry struct {
	tagline string
	name    string
	dtype   Dtype
	rank    int
	shape   []int
	values  Data
}

// NewEntry constructs an entry from its tagline and the raw data lines
// following it. It returns an EntryError (with zero line range, to be
// filled in by the Reader) when the tagline does not match the grammar,
// names an unknown dtype, or the decoded data is inconsistent with the
// declared rank and shape.
func NewEntry(tagline string, lines []string) (*Entry, error) {
	m := taglinePattern.FindStringSubmatch(strings.TrimSpace(tagline))
	if m == nil {
		return nil, newEntryError("invalid tag format", nil)
	}

	e := &Entry{
		tagline: strings.TrimSpace(tagline),
		name:    m[1],
		dtype:   Dtype(m[2]),
	}
	rank, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, newEntryError("invalid tag format", err)
	}
	e.rank = rank

	if m[4] != "" {
		for _, s := range strings.Split(m[4], ",") {
			dim, err := strconv.Atoi(s)
			if err != nil || dim < 1 {
				return nil, newEntryError("invalid tag format", err)
			}
			e.shape = append(e.shape, dim)
		}
	}

	if !e.dtype.Valid() {
		return nil, newEntryError("invalid data dtype "+strconv.Quote(m[2]), nil)
	}

	values, err := decode(e.dtype, lines, e.rank == 0)
	if err != nil {
		return nil, newEntryError(err.Error(), err)
	}

	if len(e.shape) != e.rank {
		return nil, newEntryError("incompatible rank and shape", nil)
	}
	if e.rank > 0 {
		want := 1
		for _, dim := range e.shape {
			want *= dim
		}
		if values.Len() != want {
			return nil, newEntryError("invalid number of values", nil)
		}
	}
	e.values = values
	return e, nil
}

// Tagline returns the trimmed raw header line, including the leading @.
func (e *Entry) Tagline() string { return e.tagline }

// Name returns the entry name.
func (e *Entry) Name() string { return e.name }

// Dtype returns the entry value kind.
func (e *Entry) Dtype() Dtype { return e.dtype }

// Rank returns the number of array dimensions (0 for a scalar).
func (e *Entry) Rank() int { return e.rank }

// Shape returns a copy of the per-dimension sizes. Empty for scalars.
func (e *Entry) Shape() []int {
	if len(e.shape) == 0 {
		return nil
	}
	out := make([]int, len(e.shape))
	copy(out, e.shape)
	return out
}

// Data returns the decoded values, flat in row-major order.
func (e *Entry) Data() Data { return e.values }

// Index converts a row-major multi-index into a flat offset into Data.
func (e *Entry) Index(idx ...int) (int, error) {
	return FlatIndex(e.shape, idx...)
}

// Comparable reports whether other has the same name, dtype, rank and
// shape as e. Data is not inspected; this gates whether a numeric
// comparison between reference and actual values makes sense at all.
func (e *Entry) Comparable(other *Entry) bool {
	if other == nil {
		return false
	}
	if e.name != other.name || e.dtype != other.dtype || e.rank != other.rank {
		return false
	}
	if len(e.shape) != len(other.shape) {
		return false
	}
	for i, dim := range e.shape {
		if other.shape[i] != dim {
			return false
		}
	}
	return true
}

// String renders the entry back in tagged format: the tagline followed by
// one line of whitespace-separated value tokens. Decoding the result
// yields an entry equal to e.
func (e *Entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.tagline)
	sb.WriteByte('\n')
	for i, tok := range e.tokens() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok)
	}
	return sb.String()
}

// tokens renders the decoded values back into their literal forms.
func (e *Entry) tokens() []string {
	switch values := e.values.(type) {
	case IntData:
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = strconv.FormatInt(v, 10)
		}
		return out
	case RealData:
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = strconv.FormatFloat(v, 'E', -1, 64)
		}
		return out
	case ComplexData:
		out := make([]string, 0, 2*len(values))
		for _, v := range values {
			out = append(out,
				strconv.FormatFloat(real(v), 'E', -1, 64),
				strconv.FormatFloat(imag(v), 'E', -1, 64))
		}
		return out
	case LogicalData:
		out := make([]string, len(values))
		for i, v := range values {
			if v {
				out[i] = "T"
			} else {
				out[i] = "F"
			}
		}
		return out
	}
	return nil
}
