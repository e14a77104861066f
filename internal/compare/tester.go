package compare

import (
	"fmt"

	"github.com/roach88/tagcheck/internal/tagged"
)

// FileTester is the standard Tester of a suite case: it parses the
// reference file and the produced output file through the same tagged
// reader and compares them with an absolute tolerance.
type FileTester struct {
	ReferenceFile string
	OutputFile    string
	AbsTol        float64

	// LastResult holds the detailed findings of the most recent Test
	// call, for reporting.
	LastResult *Result
}

// Test parses both files and compares them. It returns false when the
// comparison recorded findings and an error only when a file cannot be
// read or parsed.
func (t *FileTester) Test() (bool, error) {
	ref, err := readCollection(t.ReferenceFile)
	if err != nil {
		return false, fmt.Errorf("reference %s: %w", t.ReferenceFile, err)
	}
	actual, err := readCollection(t.OutputFile)
	if err != nil {
		return false, fmt.Errorf("output %s: %w", t.OutputFile, err)
	}
	c := &Comparer{AbsTol: t.AbsTol}
	t.LastResult = c.Compare(ref, actual)
	return t.LastResult.Passed(), nil
}

func readCollection(path string) (*tagged.Collection, error) {
	r, err := tagged.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return tagged.Collect(r)
}
