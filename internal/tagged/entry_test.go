package tagged

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntryScalar(t *testing.T) {
	e, err := NewEntry("@total_energy:real:0:", []string{" -0.525939780218915E+003"})
	require.NoError(t, err)

	assert.Equal(t, "@total_energy:real:0:", e.Tagline())
	assert.Equal(t, "total_energy", e.Name())
	assert.Equal(t, DtypeReal, e.Dtype())
	assert.Equal(t, 0, e.Rank())
	assert.Empty(t, e.Shape())
	assert.Equal(t, RealData{-525.939780218915}, e.Data())
}

func TestNewEntryArray(t *testing.T) {
	e, err := NewEntry("@counts:integer:2:2,3", []string{"1 2 3", "4 5 6"})
	require.NoError(t, err)

	assert.Equal(t, 2, e.Rank())
	assert.Equal(t, []int{2, 3}, e.Shape())
	assert.Equal(t, IntData{1, 2, 3, 4, 5, 6}, e.Data())

	// Row-major: element (1, 0) is the fourth flat value.
	flat, err := e.Index(1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), e.Data().(IntData)[flat])
}

func TestNewEntryTrimsTagline(t *testing.T) {
	e, err := NewEntry("  @x:integer:0:\n", []string{"7"})
	require.NoError(t, err)

	assert.Equal(t, "@x:integer:0:", e.Tagline())
}

func TestNewEntryInvalidTagFormat(t *testing.T) {
	cases := []string{
		"total_energy:real:0:",    // missing @
		"@:real:0:",               // empty name
		"@a b:real:0:",            // space in name
		"@x:real:0",               // missing shape field
		"@x:real::",               // missing rank
		"@x:real:x:",              // non-numeric rank
		"@x:real:1:2,",            // trailing comma
		"@x:real:1:0",             // non-positive dimension
		"@x:real:2:2,15:extra",    // trailing field
	}
	for _, tagline := range cases {
		_, err := NewEntry(tagline, []string{"1.0"})

		require.Error(t, err, "tagline %q", tagline)
		var ee *EntryError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, "invalid tag format", ee.Message, "tagline %q", tagline)
	}
}

func TestNewEntryInvalidDtype(t *testing.T) {
	_, err := NewEntry("@x:float:0:", []string{"1.0"})

	var ee *EntryError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Message, "invalid data dtype")
	assert.Contains(t, ee.Message, "float")
}

func TestNewEntryIncompatibleRankAndShape(t *testing.T) {
	// Rank says 2 but shape lists one dimension.
	_, err := NewEntry("@x:real:2:4", []string{"1 2 3 4"})

	var ee *EntryError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "incompatible rank and shape", ee.Message)

	// Rank 1 with no shape at all.
	_, err = NewEntry("@x:real:1:", []string{"1 2 3"})
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "incompatible rank and shape", ee.Message)
}

func TestNewEntryInvalidNumberOfValues(t *testing.T) {
	_, err := NewEntry("@x:real:2:2,3", []string{"1 2 3 4 5"})

	var ee *EntryError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "invalid number of values", ee.Message)
}

func TestNewEntryConversionErrorWrapped(t *testing.T) {
	_, err := NewEntry("@flags:logical:1:2", []string{"T banana"})

	var ee *EntryError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Message, "banana")
	assert.True(t, IsConversionError(err), "cause should stay reachable via errors.As")
}

func TestNewEntryScalarTooManyValues(t *testing.T) {
	_, err := NewEntry("@x:real:0:", []string{"1.0 2.0"})

	var ee *EntryError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Message, "too many values")
}

func TestComparable(t *testing.T) {
	base, err := NewEntry("@e:real:2:2,3", []string{"1 2 3 4 5 6"})
	require.NoError(t, err)

	same, err := NewEntry("@e:real:2:2,3", []string{"9 9 9 9 9 9"})
	require.NoError(t, err)
	assert.True(t, base.Comparable(same), "data differences must not matter")

	otherName, err := NewEntry("@f:real:2:2,3", []string{"1 2 3 4 5 6"})
	require.NoError(t, err)
	assert.False(t, base.Comparable(otherName))

	otherShape, err := NewEntry("@e:real:2:3,2", []string{"1 2 3 4 5 6"})
	require.NoError(t, err)
	assert.False(t, base.Comparable(otherShape))

	otherDtype, err := NewEntry("@e:integer:2:2,3", []string{"1 2 3 4 5 6"})
	require.NoError(t, err)
	assert.False(t, base.Comparable(otherDtype))

	assert.False(t, base.Comparable(nil))
}

func TestEntryStringRoundTrip(t *testing.T) {
	cases := []struct {
		tagline string
		lines   []string
	}{
		{"@n:integer:0:", []string{"-42"}},
		{"@x:real:0:", []string{"-0.525939780218915E+003"}},
		{"@z:complex:1:2", []string{"1.5 -2.25 0.0 3.0"}},
		{"@ok:logical:0:", []string{"T"}},
		{"@m:real:2:2,2", []string{"1.0 2.0", "3.0 4.0"}},
	}
	for _, tc := range cases {
		e, err := NewEntry(tc.tagline, tc.lines)
		require.NoError(t, err)

		text := e.String()
		parts := strings.SplitN(text, "\n", 2)
		require.Len(t, parts, 2, "tagline %q", tc.tagline)
		assert.Equal(t, tc.tagline, parts[0])

		again, err := NewEntry(parts[0], []string{parts[1]})
		require.NoError(t, err)
		assert.Equal(t, e.Data(), again.Data(), "tagline %q", tc.tagline)
		assert.True(t, e.Comparable(again))
	}
}

func TestEntryShapeIsCopied(t *testing.T) {
	e, err := NewEntry("@m:real:2:2,2", []string{"1 2 3 4"})
	require.NoError(t, err)

	shape := e.Shape()
	shape[0] = 99
	assert.Equal(t, []int{2, 2}, e.Shape())
}
