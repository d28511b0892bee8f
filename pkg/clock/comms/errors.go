package comms

import (
	"errors"
	"fmt"
)

// FramingError reports a response that filled the read buffer without a delimiter.
type FramingError struct {
	Capacity int
	Partial  []byte
}

// Error implements the error interface.
func (e *FramingError) Error() string {
	return fmt.Sprintf("frame exceeded %d byte buffer without a newline", e.Capacity)
}

// ParseError reports a sub-field that is missing, not decimal, or out of range.
type ParseError struct {
	Frame  string
	Start  int
	Length int
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("bad field [%d:%d] in %q: %s", e.Start, e.Start+e.Length, e.Frame, e.Reason)
}

// ValidationError reports a request rejected before anything was transmitted.
// Message is the text shown to the user.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
