package tagged

import (
	"strconv"
	"strings"
)

// converter decodes whitespace-split tokens into the flat values of one
// dtype. The set of converters is closed: integer, real, complex, logical.
type converter interface {
	convert(tokens []string) (Data, error)
}

// converters maps each dtype to its decoder. Constructed once, never
// mutated.
var converters = map[Dtype]converter{
	DtypeInteger: intConverter{},
	DtypeReal:    realConverter{},
	DtypeComplex: complexConverter{},
	DtypeLogical: logicalConverter{},
}

// decode tokenizes the raw data lines and decodes them as dtype. When
// single is set, exactly one decoded value must result.
func decode(dtype Dtype, lines []string, single bool) (Data, error) {
	conv, ok := converters[dtype]
	if !ok {
		return nil, &ConversionError{Dtype: dtype, Message: "unknown dtype " + strconv.Quote(string(dtype))}
	}
	var tokens []string
	for _, line := range lines {
		tokens = append(tokens, strings.Fields(line)...)
	}
	values, err := conv.convert(tokens)
	if err != nil {
		return nil, err
	}
	if single && values.Len() != 1 {
		return nil, &ConversionError{Dtype: dtype, Message: "too many values"}
	}
	return values, nil
}

type intConverter struct{}

func (intConverter) convert(tokens []string) (Data, error) {
	values := make(IntData, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, &ConversionError{
				Dtype:   DtypeInteger,
				Token:   tok,
				Message: "unable to convert string to integer",
				Err:     err,
			}
		}
		values = append(values, v)
	}
	return values, nil
}

type realConverter struct{}

func (realConverter) convert(tokens []string) (Data, error) {
	values := make(RealData, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &ConversionError{
				Dtype:   DtypeReal,
				Token:   tok,
				Message: "unable to convert string to float",
				Err:     err,
			}
		}
		values = append(values, v)
	}
	return values, nil
}

// complexConverter consumes tokens in (real, imaginary) float pairs, as a
// Fortran write statement emits them.
type complexConverter struct{}

func (complexConverter) convert(tokens []string) (Data, error) {
	if len(tokens)%2 != 0 {
		return nil, &ConversionError{
			Dtype:   DtypeComplex,
			Message: "complex conversion needs an even number of tokens",
		}
	}
	values := make(ComplexData, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		re, err := strconv.ParseFloat(tokens[i], 64)
		if err == nil {
			var im float64
			im, err = strconv.ParseFloat(tokens[i+1], 64)
			if err == nil {
				values = append(values, complex(re, im))
				continue
			}
		}
		return nil, &ConversionError{
			Dtype:   DtypeComplex,
			Message: "unable to convert string to complex",
			Err:     err,
		}
	}
	return values, nil
}

type logicalConverter struct{}

func (logicalConverter) convert(tokens []string) (Data, error) {
	values := make(LogicalData, 0, len(tokens))
	for _, tok := range tokens {
		switch tok {
		case "T", "t":
			values = append(values, true)
		case "F", "f":
			values = append(values, false)
		default:
			return nil, &ConversionError{
				Dtype:   DtypeLogical,
				Token:   tok,
				Message: "unable to convert " + strconv.Quote(tok) + " to logical",
			}
		}
	}
	return values, nil
}
