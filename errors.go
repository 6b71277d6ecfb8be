package dispatch

import "fmt"

// ErrorCode enumerates dispatch error categories, the closed set the C
// source's hutils_err_e gives the registry to report failures with.
type ErrorCode int

const (
	// Unknown represents an unspecified error condition.
	Unknown ErrorCode = iota
	// ErrAlloc covers resource exhaustion: allocation failures and key-encoding
	// failures, and (matching the underlying hash-insert's own behavior) a
	// duplicate-opcode insert.
	ErrAlloc
	// ErrNullPointer covers null/consistency violations: mismatched
	// retval/ret pairing, an uneven fill_desc sequence.
	ErrNullPointer
	// ErrNoFuncReg covers a lookup miss during dispatch, set, or cleanup.
	ErrNoFuncReg
	// ErrHook is the category for a validation-hook failure. The dispatch
	// pipeline itself returns a hook's error unwrapped and never produces
	// this code.
	ErrHook
)

func (c ErrorCode) String() string {
	switch c {
	case ErrAlloc:
		return "ERR_ALLOC"
	case ErrNullPointer:
		return "ERR_NULL_POINTER"
	case ErrNoFuncReg:
		return "ERR_NO_FUNC_REG"
	case ErrHook:
		return "ERR_HOOK"
	default:
		return "UNKNOWN"
	}
}

// Error is the dispatch package's error type: a code, the wrapped cause
// (when there is one), and optional diagnostic user data such as an
// opcode or descriptor name.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

// Error implements the error interface.
func (e Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("dispatch: %s (user data: %v)", e.Code, e.UserData)
	}
	return fmt.Errorf("dispatch: %s, user data: %v, details: %w", e.Code, e.UserData, e.Err).Error()
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e Error) Unwrap() error {
	return e.Err
}

func newErr(code ErrorCode, userData any, cause error) error {
	return Error{Code: code, Err: cause, UserData: userData}
}

// errNoFuncRegFor builds the standard "no registered handler" error for an opcode.
func errNoFuncRegFor(opcode uint32) error {
	return newErr(ErrNoFuncReg, opcode, fmt.Errorf("no handler registered for opcode %s", EncodeKey(opcode)))
}

func errUnevenFill(numDescs, numHandlers int) error {
	return fmt.Errorf("fill_desc: descriptor sequence (%d) and handler sequence (%d) have different lengths",
		numDescs, numHandlers)
}
