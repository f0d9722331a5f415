package replay

import (
	"errors"
	"fmt"
	"io"
)

// Sentinel errors for the SLC3 container format. Compare against these
// with errors.Is; FormatError wraps one of them with positional context.
var (
	// ErrInvalidHeader means the magic or metadata size did not match.
	ErrInvalidHeader = fmt.Errorf("slc3: invalid header")
	// ErrInvalidFooter means the trailing byte was not 0xCC.
	ErrInvalidFooter = fmt.Errorf("slc3: invalid footer")
	// ErrTruncated means a declared size exceeded the remaining bytes.
	ErrTruncated = fmt.Errorf("slc3: truncated stream")
	// ErrInvalidSection means a section header carried a reserved identifier.
	ErrInvalidSection = fmt.Errorf("slc3: invalid section identifier")
	// ErrInvalidArgument means an append helper was called out of its
	// documented range (wrong action type, non-monotonic frame, non-positive tps).
	ErrInvalidArgument = fmt.Errorf("slc3: invalid argument")
	// ErrStreamIO means a position query or seek on the sink/source failed.
	ErrStreamIO = fmt.Errorf("slc3: stream i/o error")
)

// FormatError decorates one of the sentinel errors above with enough
// positional context to track down a corrupt container. Callers that only
// care about the error class should use errors.Is(err, ErrTruncated) etc.
type FormatError struct {
	Op     string // what we were doing, e.g. "read atom header"
	Offset int64  // byte offset at which the failure was noticed, -1 if unknown
	Err    error  // one of the sentinel errors above
}

func (e *FormatError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("slc3: %s at offset %d: %v", e.Op, e.Offset, e.Err)
	}
	return fmt.Sprintf("slc3: %s: %v", e.Op, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErrf(op string, offset int64, sentinel error) error {
	return &FormatError{Op: op, Offset: offset, Err: sentinel}
}

// ioReadErr classifies a failed read: a clean or unexpected EOF means the
// stream was shorter than the structure it was supposed to hold
// (ErrTruncated); anything else is a lower-level transport failure
// (ErrStreamIO).
func ioReadErr(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return formatErrf(op, -1, ErrTruncated)
	}
	return formatErrf(op, -1, ErrStreamIO)
}
