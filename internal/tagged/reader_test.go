package tagged

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eigenBlock = ` -0.113800118340220E+003 -0.844328239820224E+001 -0.107940079205845E+002
 -0.382220411906585E+000 -0.883247459509101E+000  0.372541641821865E-001
 -0.376423094429580E-002  0.155774023187805E+000  0.128062316330480E+000
  0.424260506305019E+000  0.432450936322496E+000  0.958999472193787E+000
  0.107685549184055E+001  0.199098681475960E+001  0.239787747378676E+001
  0.396348350241529E+001  0.507913876324391E+001  0.773060984307095E+001
  0.105784242675752E+002  0.150210046035295E+002  0.222461401555423E+002
  0.295118991789216E+002  0.485039454693113E+002  0.596375351220563E+002
  0.114396736066691E+003  0.127861086132756E+003  0.323973885778375E+003
  0.312550781039824E+003  0.159919603974785E+004  0.109261160350897E+004`

// sampleOutput mimics one converged run of an atomic DFT code: some prose
// the code prints before the tagged section, one logical scalar, five real
// scalars and two spin channels of eigenlevels.
var sampleOutput = `Self consistent calculation converged.
Writing tagged results.
@zora:logical:0:
 F
@kinetic_energy:real:0:
  0.524967175993157E+003
@nuclear_energy:real:0:
 -0.125312452831053E+004
@coulomb_energy:real:0:
  0.231452951325734E+003
@xc_energy:real:0:
 -0.292353792272788E+002
@total_energy:real:0:
 -0.525939780218915E+003
@eigenlevels_up:real:2:2,15
` + eigenBlock + `
@eigenlevels_dn:real:2:2,15
` + eigenBlock + `
`

func TestReaderFullParse(t *testing.T) {
	r := NewReader(strings.NewReader(sampleOutput))

	entries, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 8)

	want := []struct {
		name  string
		dtype Dtype
		rank  int
		shape []int
	}{
		{"zora", DtypeLogical, 0, nil},
		{"kinetic_energy", DtypeReal, 0, nil},
		{"nuclear_energy", DtypeReal, 0, nil},
		{"coulomb_energy", DtypeReal, 0, nil},
		{"xc_energy", DtypeReal, 0, nil},
		{"total_energy", DtypeReal, 0, nil},
		{"eigenlevels_up", DtypeReal, 2, []int{2, 15}},
		{"eigenlevels_dn", DtypeReal, 2, []int{2, 15}},
	}
	for i, w := range want {
		assert.Equal(t, w.name, entries[i].Name())
		assert.Equal(t, w.dtype, entries[i].Dtype())
		assert.Equal(t, w.rank, entries[i].Rank())
		assert.Equal(t, w.shape, entries[i].Shape())
	}

	c := NewCollection(entries...)
	total, ok := c.Get("total_energy")
	require.True(t, ok)
	assert.Equal(t, RealData{-525.939780218915}, total.Data())

	up, ok := c.Get("eigenlevels_up")
	require.True(t, ok)
	assert.Equal(t, 30, up.Data().Len())
	assert.InDelta(t, -113.800118340220, float64(up.Data().(RealData)[0]), 1e-12)
}

func TestReaderNoHeaders(t *testing.T) {
	r := NewReader(strings.NewReader("no taglines here\njust prose\n"))

	_, err := r.Next()
	assert.Equal(t, io.EOF, err)

	// Termination is sticky.
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderEmptyStream(t *testing.T) {
	r := NewReader(strings.NewReader(""))

	entries, err := r.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReaderSequentialNext(t *testing.T) {
	r := NewReader(strings.NewReader("@a:integer:0:\n1\n@b:integer:0:\n2\n"))

	a, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", a.Name())

	b, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", b.Name())

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderMalformedBlockLineRange(t *testing.T) {
	input := `leading prose
@ok:integer:0:
5
@bad:real:2:2,3
 1.0 2.0 3.0
 4.0 5.0
@after:integer:0:
9
`
	r := NewReader(strings.NewReader(input))

	ok, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "ok", ok.Name())

	_, err = r.Next()
	require.Error(t, err)
	var ee *EntryError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 4, ee.StartLine, "range must cover exactly the bad block")
	assert.Equal(t, 6, ee.EndLine)
	assert.Equal(t, "invalid number of values", ee.Message)

	// The reader does not resynchronize, but the caller may skip the bad
	// block and go on with the already buffered next header.
	after, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "after", after.Name())
}

func TestReaderMalformedHeaderOnlyBlock(t *testing.T) {
	r := NewReader(strings.NewReader("@bad:real:1:\n"))

	_, err := r.Next()
	var ee *EntryError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.StartLine)
	assert.Equal(t, 1, ee.EndLine)
}

type closeCounter struct {
	io.Reader
	closes int
}

func (c *closeCounter) Close() error {
	c.closes++
	return nil
}

func TestReaderNeverClosesCallerStream(t *testing.T) {
	src := &closeCounter{Reader: strings.NewReader("@a:integer:0:\n1\n")}
	r := NewReader(src)

	_, err := r.ReadAll()
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Equal(t, 0, src.closes)
}

func TestOpenPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tag")
	require.NoError(t, os.WriteFile(path, []byte(sampleOutput), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	entries, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, 8)

	// Close after auto-close at exhaustion must stay a no-op.
	require.NoError(t, r.Close())
}

func TestOpenGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tag.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(sampleOutput))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	c, err := Collect(r)
	require.NoError(t, err)
	assert.Equal(t, 8, c.Len())
}

func TestOpenZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tag.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte(sampleOutput))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	c, err := Collect(r)
	require.NoError(t, err)
	assert.Equal(t, 8, c.Len())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.tag"))
	assert.Error(t, err)
}

func TestCollectDuplicateNameKeepsLater(t *testing.T) {
	input := "@x:integer:0:\n1\n@x:integer:0:\n2\n"
	c, err := Collect(NewReader(strings.NewReader(input)))
	require.NoError(t, err)

	got, ok := c.Get("x")
	require.True(t, ok)
	assert.Equal(t, IntData{2}, got.Data())
	assert.Equal(t, 1, c.Len())
}
