// Package tagged implements the tagged data format used to exchange named
// numeric results between a simulation run and the validation harness.
//
// The format is a plain text sequence of taglines, each followed by the
// whitespace-separated values of one scalar or array:
//
//	@<name>:<dtype>:<rank>:<shape>
//
// where name is a unique identifier, dtype is one of real, complex, integer
// or logical, rank is the number of array dimensions (0 for a scalar) and
// shape is a comma separated list of rank positive integers (omitted when
// rank is 0). Array values are stored in row-major order and may span any
// number of lines. Complex values are written as consecutive real/imaginary
// float pairs. Lines before the first tagline are ignored.
//
// Example of a 2x15 real array entry:
//
//	@eigenlevels_dn:real:2:2,15
//	 -0.113800118340220E+003 -0.844328239820224E+001 -0.107940079205845E+002
//	 ...
//
// Reader streams entries out of a file or io.Reader one at a time, with
// transparent decompression selected by file suffix. Collection indexes
// entries by name for lookup and pattern search. Both sides of a comparison
// (reference and actual output) are parsed through the same path.
package tagged
