package lattice

import "fmt"

// HeaderError reports a missing or unreadable extents header.
type HeaderError struct {
	Line   int
	Raw    string
	Detail string
	Err    error
}

func (e *HeaderError) Error() string {
	msg := fmt.Sprintf("header line %d: %s", e.Line, e.Detail)
	if e.Raw != "" {
		msg += fmt.Sprintf(" (%q)", e.Raw)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *HeaderError) Unwrap() error { return e.Err }

// RecordError reports a data line with too few tokens or an unparseable value.
type RecordError struct {
	Line   int
	Raw    string
	Detail string
	Err    error
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("line %d: %s (%q)", e.Line, e.Detail, e.Raw)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RecordError) Unwrap() error { return e.Err }

// RangeError reports a lattice coordinate outside the declared extents.
// Value is already converted to zero-based.
type RangeError struct {
	Line  int
	Raw   string
	Axis  string
	Value int
	Bound int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("line %d: bad %s value %d, must be 0 <= %s < %d (%q)",
		e.Line, e.Axis, e.Value, e.Axis, e.Bound, e.Raw)
}
