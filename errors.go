package beg

import "fmt"

// InvalidCodeError reports an allele index, ploidy, code or position that lies
// outside the domain [Min, Max) of the operation that received it.
type InvalidCodeError struct {
	What  string
	Value int
	Min   int
	Max   int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid %s %d: expected a value in [%d, %d)", e.What, e.Value, e.Min, e.Max)
}

// UnsupportedArityError reports a group encode with a number of codes the
// group codec cannot pack.
type UnsupportedArityError struct {
	Arity  int
	Native int
}

func (e *UnsupportedArityError) Error() string {
	return fmt.Sprintf("unsupported group arity %d: codec packs 1 to %d codes", e.Arity, e.Native)
}

// OutOfRangeError reports a row count that exceeds the rows supplied.
type OutOfRangeError struct {
	Count int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("row count %d out of range for %d rows", e.Count, e.Len)
}

// BufferTooSmallError reports a caller-provided buffer that cannot hold the
// bytes an operation needs to write.
type BufferTooSmallError struct {
	Need int
	Have int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("buffer too small: need %d bytes, have %d", e.Need, e.Have)
}

func invalid(what string, value, min, max int) error {
	return &InvalidCodeError{What: what, Value: value, Min: min, Max: max}
}
