package errs

import (
	"errors"
	"strconv"
	"strings"

	"AProject/tools/errs/stack"
)

// frames between stack.New and the code that called Wrap/WrapMsg
const stackSkip = 2

func NewCodeError(code int, msg string) CodeError {
	return CodeError{
		Code: code,
		Msg:  msg,
	}
}

type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func (e *CodeError) WithDetail(detail string) CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return CodeError{Code: e.Code, Msg: e.Msg, Detail: d}
}

func (e *CodeError) Wrap() error {
	return stack.New(e, stackSkip)
}

func (e *CodeError) WrapMsg(msg string, kv ...any) error {
	ret := CodeError{Code: e.Code, Msg: e.Msg, Detail: e.Detail}
	if msg != "" || len(kv) > 0 {
		detail := toString(msg, kv)
		if ret.Detail == "" {
			ret.Detail = detail
		} else {
			ret.Detail += ", " + detail
		}
	}
	return stack.New(&ret, stackSkip)
}

func (e *CodeError) Is(err error) bool {
	var codeErr *CodeError
	if !errors.As(Unwrap(err), &codeErr) {
		return err == nil && e == nil
	}
	if e == nil {
		return false
	}
	return e.Code == codeErr.Code
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

// Unwrap walks to the innermost cause.
func Unwrap(err error) error {
	for err != nil {
		unwrap, ok := err.(interface {
			error
			Unwrap() error
		})
		if !ok {
			break
		}
		next := unwrap.Unwrap()
		if next == nil {
			return unwrap
		}
		err = next
	}
	return err
}

func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return stack.New(err, stackSkip)
}

func WrapMsg(err error, msg string, kv ...any) error {
	if err == nil {
		return nil
	}
	return stack.New(NewErrorWrapper(err, toString(msg, kv)), stackSkip)
}
