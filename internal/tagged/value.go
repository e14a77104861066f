package tagged

import "fmt"

// Dtype identifies the value kind of an entry.
type Dtype string

const (
	// DtypeInteger holds signed 64-bit integers.
	DtypeInteger Dtype = "integer"

	// DtypeReal holds IEEE 754 double precision floats.
	DtypeReal Dtype = "real"

	// DtypeComplex holds complex128 values written as real/imaginary pairs.
	DtypeComplex Dtype = "complex"

	// DtypeLogical holds booleans written as T/t/F/f.
	DtypeLogical Dtype = "logical"
)

// Valid reports whether d is one of the four known dtypes.
func (d Dtype) Valid() bool {
	switch d {
	case DtypeInteger, DtypeReal, DtypeComplex, DtypeLogical:
		return true
	}
	return false
}

// Data is a sealed interface over the decoded values of one entry.
// Only IntData, RealData, ComplexData, and LogicalData implement this.
// Values are stored flat in row-major order; the owning Entry carries the
// shape.
type Data interface {
	// Len returns the number of decoded values.
	Len() int

	// Dtype returns the kind of the stored values.
	Dtype() Dtype

	data() // Sealed - only these types implement it
}

// IntData holds decoded integer values.
type IntData []int64

func (IntData) data() {}

// Len returns the number of values.
func (d IntData) Len() int { return len(d) }

// Dtype returns DtypeInteger.
func (IntData) Dtype() Dtype { return DtypeInteger }

// RealData holds decoded real values.
type RealData []float64

func (RealData) data() {}

// Len returns the number of values.
func (d RealData) Len() int { return len(d) }

// Dtype returns DtypeReal.
func (RealData) Dtype() Dtype { return DtypeReal }

// ComplexData holds decoded complex values.
type ComplexData []complex128

func (ComplexData) data() {}

// Len returns the number of values.
func (d ComplexData) Len() int { return len(d) }

// Dtype returns DtypeComplex.
func (ComplexData) Dtype() Dtype { return DtypeComplex }

// LogicalData holds decoded logical values.
type LogicalData []bool

func (LogicalData) data() {}

// Len returns the number of values.
func (d LogicalData) Len() int { return len(d) }

// Dtype returns DtypeLogical.
func (LogicalData) Dtype() Dtype { return DtypeLogical }

// FlatIndex converts a row-major multi-index against shape into a flat
// offset. The last shape dimension varies fastest. Returns an error if the
// index arity does not match the shape or any coordinate is out of range.
func FlatIndex(shape []int, idx ...int) (int, error) {
	if len(idx) != len(shape) {
		return 0, fmt.Errorf("index of length %d against shape of rank %d", len(idx), len(shape))
	}
	flat := 0
	for dim, i := range idx {
		if i < 0 || i >= shape[dim] {
			return 0, fmt.Errorf("index %d out of range for dimension %d of size %d", i, dim, shape[dim])
		}
		flat = flat*shape[dim] + i
	}
	return flat, nil
}
