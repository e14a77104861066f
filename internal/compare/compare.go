// Package compare checks the tagged output of a simulation run against a
// reference file. Entries are matched by name; a numeric comparison only
// happens when name, dtype, rank and shape agree on both sides.
package compare

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/roach88/tagcheck/internal/tagged"
)

// FindingKind categorizes one deviation between reference and actual
// output.
type FindingKind string

const (
	// KindMissing means the actual output has no entry of this name.
	KindMissing FindingKind = "MISSING"

	// KindIncomparable means the entry exists but dtype, rank or shape
	// differ, so values cannot be compared.
	KindIncomparable FindingKind = "INCOMPARABLE"

	// KindDeviation means values differ beyond the allowed tolerance.
	KindDeviation FindingKind = "DEVIATION"
)

// Finding is one per-entry comparison failure.
type Finding struct {
	Name    string      `json:"name"`
	Kind    FindingKind `json:"kind"`
	Message string      `json:"message"`

	// MaxDeviation is the largest absolute difference found, for
	// deviation findings on numeric entries.
	MaxDeviation float64 `json:"max_deviation,omitempty"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Name, f.Kind, f.Message)
}

// Result holds the outcome of comparing two collections.
type Result struct {
	// Checked is the number of reference entries inspected.
	Checked int `json:"checked"`

	// Findings lists every failure in reference order. Empty means the
	// comparison passed.
	Findings []Finding `json:"findings,omitempty"`
}

// Passed reports whether no finding was recorded.
func (r *Result) Passed() bool { return len(r.Findings) == 0 }

// Comparer compares actual output against reference data with an
// absolute tolerance for real and complex values. Integer and logical
// values must match exactly.
type Comparer struct {
	AbsTol float64
}

// Compare checks every entry of ref against the same name in actual.
// Entries present only in actual are ignored: the reference defines what
// is validated.
func (c *Comparer) Compare(ref, actual *tagged.Collection) *Result {
	res := &Result{}
	for _, want := range ref.Entries() {
		res.Checked++
		got, ok := actual.Get(want.Name())
		if !ok {
			res.Findings = append(res.Findings, Finding{
				Name:    want.Name(),
				Kind:    KindMissing,
				Message: "entry not present in actual output",
			})
			continue
		}
		if !want.Comparable(got) {
			res.Findings = append(res.Findings, Finding{
				Name: want.Name(),
				Kind: KindIncomparable,
				Message: fmt.Sprintf("reference is %s rank %d shape %v, actual is %s rank %d shape %v",
					want.Dtype(), want.Rank(), want.Shape(),
					got.Dtype(), got.Rank(), got.Shape()),
			})
			continue
		}
		if f, ok := c.compareData(want, got); ok {
			res.Findings = append(res.Findings, f)
		}
	}
	return res
}

func (c *Comparer) compareData(want, got *tagged.Entry) (Finding, bool) {
	var (
		maxDev     float64
		mismatches int
	)
	switch ref := want.Data().(type) {
	case tagged.RealData:
		act := got.Data().(tagged.RealData)
		for i, v := range ref {
			if dev := math.Abs(v - act[i]); dev > c.AbsTol {
				mismatches++
				maxDev = math.Max(maxDev, dev)
			}
		}
	case tagged.ComplexData:
		act := got.Data().(tagged.ComplexData)
		for i, v := range ref {
			if dev := cmplx.Abs(v - act[i]); dev > c.AbsTol {
				mismatches++
				maxDev = math.Max(maxDev, dev)
			}
		}
	case tagged.IntData:
		act := got.Data().(tagged.IntData)
		for i, v := range ref {
			if v != act[i] {
				mismatches++
				maxDev = math.Max(maxDev, math.Abs(float64(v-act[i])))
			}
		}
	case tagged.LogicalData:
		act := got.Data().(tagged.LogicalData)
		for i, v := range ref {
			if v != act[i] {
				mismatches++
			}
		}
	}
	if mismatches == 0 {
		return Finding{}, false
	}
	msg := fmt.Sprintf("%d of %d values deviate", mismatches, want.Data().Len())
	if want.Dtype() == tagged.DtypeReal || want.Dtype() == tagged.DtypeComplex {
		msg = fmt.Sprintf("%s (max |diff| %.6e, abstol %.6e)", msg, maxDev, c.AbsTol)
	}
	return Finding{
		Name:         want.Name(),
		Kind:         KindDeviation,
		Message:      msg,
		MaxDeviation: maxDev,
	}, true
}
