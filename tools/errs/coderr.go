package errs

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CodeError is the wire shape of every domain failure: a stable numeric
// code, an Arabic user-facing message, and an optional English detail that
// only shows up in logs.
type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) CodeError {
	return CodeError{Code: code, Msg: msg}
}

func (e *CodeError) WithDetail(detail string) CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return CodeError{Code: e.Code, Msg: e.Msg, Detail: d}
}

// Wrap attaches a call stack so service-layer failures keep their origin.
func (e *CodeError) Wrap() error {
	c := *e
	return errors.WithStack(&c)
}

func (e *CodeError) WrapMsg(detail string) error {
	c := e.WithDetail(detail)
	return errors.WithStack(&c)
}

// Is reports whether err carries the same code, unwrapping as needed.
func (e *CodeError) Is(err error) bool {
	var ce *CodeError
	if !stderrors.As(err, &ce) {
		return err == nil && e == nil
	}
	return e != nil && e.Code == ce.Code
}

func (e *CodeError) Error() string {
	parts := []string{strconv.Itoa(e.Code), e.Msg}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	return strings.Join(parts, " ")
}

// Unwrap walks err down to the innermost *CodeError, or nil when the chain
// holds none.
func Unwrap(err error) *CodeError {
	var ce *CodeError
	if stderrors.As(err, &ce) {
		return ce
	}
	return nil
}
