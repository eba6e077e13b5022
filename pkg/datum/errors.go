package datum

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is wrapped by FormatError when a read runs past the range.
var ErrUnexpectedEOF = errors.New("unexpected end of data")

// ErrTypeMismatch is wrapped by FormatError when a datum has the wrong tag.
var ErrTypeMismatch = errors.New("unexpected datum type")

// FormatError reports malformed input at a byte offset.
type FormatError struct {
	Offset int
	Msg    string
	Err    error
}

func newFormatError(offset int, format string, args ...any) *FormatError {
	return &FormatError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s (@0x%x)", e.Msg, e.Offset)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
