// Package diag provides the shared fatal-error type used by the CSS
// and HTML parsers and by the layout engine. Malformed input and
// semantic misuse are both non-resumable: a diag.Error identifies the
// offending construct and its byte offset, and halts the pipeline.
package diag

import "fmt"

// Error is a fatal, non-resumable diagnostic. Offset is the byte
// position in the source string where the fault was detected, or -1
// when the fault has no single source location (e.g. a root styled
// node with display: none).
type Error struct {
	Offset int
	Msg    string
}

// New creates an Error at the given byte offset.
func New(offset int, format string, args ...interface{}) *Error {
	return &Error{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Offset < 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (at offset %d)", e.Msg, e.Offset)
}
