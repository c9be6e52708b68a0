package griderrors

import (
	"errors"
	"fmt"
)

// Error is the error type returned by the client. It carries a Code that callers can match
// with errors.Is against the sentinel errors of this package, or with IsCode.
type Error struct {
	code      ErrorCode
	message   string
	hint      string
	component string
	wrapped   error
}

// New creates an Error with a formatted message and no code.
func New(format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf(format, a...)}
}

// Wrap creates an Error wrapping err. If err already is an Error, its code and component are
// inherited.
func Wrap(err error, format string, a ...any) *Error {
	if err == nil {
		return nil
	}
	e := &Error{
		message: fmt.Sprintf(format, a...),
		wrapped: err,
	}
	var inner *Error
	if errors.As(err, &inner) {
		e.code = inner.code
		e.component = inner.component
		e.hint = inner.hint
	}
	return e
}

func (e *Error) WithCode(code ErrorCode) *Error {
	e.code = code
	return e
}

func (e *Error) WithHint(hint string) *Error {
	e.hint = hint
	return e
}

func (e *Error) WithComponent(component string) *Error {
	e.component = component
	return e
}

func (e *Error) Error() string {
	if e.wrapped == nil {
		return e.message
	}
	if e.message == "" {
		return e.wrapped.Error()
	}
	return e.message + ": " + e.wrapped.Error()
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// Is matches another *Error with the same non-empty code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.code != "" && t.code == e.code
}

func (e *Error) Code() ErrorCode {
	return e.code
}

func (e *Error) Hint() string {
	return e.hint
}

func (e *Error) Component() string {
	return e.component
}

// IsCode reports whether any error in err's chain is an Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.code == code {
			return true
		}
		err = e.wrapped
	}
	return false
}
