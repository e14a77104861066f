package tagged

import (
	"errors"
	"fmt"
)

// ConversionError reports a failure to decode raw tokens as a declared dtype.
//
// Conversion errors include:
//   - Unparsable numeric literal for integer/real/complex tokens
//   - Odd token count for complex values
//   - A logical token outside {T, t, F, f}
//   - More than one decoded value where a scalar was declared
//
// Conversion errors never escape entry construction; they are wrapped into
// an EntryError before reaching callers of Reader.
type ConversionError struct {
	// Dtype is the kind the tokens were decoded as.
	Dtype Dtype

	// Token is the offending token, when a single one can be blamed.
	Token string

	// Message is a human-readable description.
	Message string

	// Err is the underlying parse error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying parse error.
func (e *ConversionError) Unwrap() error { return e.Err }

// EntryError reports an entry that could not be constructed: a tagline that
// does not match the grammar, an unknown dtype, or data inconsistent with
// the declared rank and shape.
//
// StartLine and EndLine delimit the offending block (tagline through last
// data line, 1-based, inclusive). They are zero when the entry was built
// directly from strings rather than through a Reader.
type EntryError struct {
	StartLine int
	EndLine   int
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	if e.StartLine > 0 {
		return fmt.Sprintf("lines %d-%d: %s", e.StartLine, e.EndLine, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped cause (typically a ConversionError).
func (e *EntryError) Unwrap() error { return e.Err }

// IsConversionError returns true if the error is, or wraps, a
// ConversionError. Uses errors.As to handle wrapped errors.
func IsConversionError(err error) bool {
	var ce *ConversionError
	return errors.As(err, &ce)
}

// IsEntryError returns true if the error is, or wraps, an EntryError.
func IsEntryError(err error) bool {
	var ee *EntryError
	return errors.As(err, &ee)
}

func newEntryError(msg string, err error) *EntryError {
	return &EntryError{Message: msg, Err: err}
}
