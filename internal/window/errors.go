package window

import "errors"

// Error kinds. Every error returned by Handler matches exactly one of them
// under errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOperationFailed = errors.New("operation failed")
)

var (
	// ErrClosed is returned by handles whose window has already been closed.
	ErrClosed = errors.New("window is closed")
	// ErrNoWindow is returned by a Registry with no attached window.
	ErrNoWindow = errors.New("no window attached")
)

// CommandError is the error type surfaced to the front end. Error() is the
// string the caller sees.
type CommandError struct {
	Kind error
	Msg  string
	Err  error
}

func (e *CommandError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// InvalidArgument builds an ErrInvalidArgument-class error.
func InvalidArgument(msg string) error {
	return &CommandError{Kind: ErrInvalidArgument, Msg: msg}
}

// OperationFailed builds an ErrOperationFailed-class error wrapping the
// underlying window-manager failure.
func OperationFailed(op string, err error) error {
	return &CommandError{Kind: ErrOperationFailed, Msg: op, Err: err}
}
