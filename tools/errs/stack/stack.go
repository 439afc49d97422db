package stack

import (
	"fmt"
	"runtime"
	"strings"
)

// New wraps err with the call site skip frames above this function, so logs
// point at the code that raised the error rather than the errs helpers.
func New(err error, skip int) error {
	if err == nil {
		return nil
	}
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return &withStack{cause: err}
	}
	fn := runtime.FuncForPC(pc)
	name := "unknown"
	if fn != nil {
		name = trimPkg(fn.Name())
	}
	return &withStack{
		cause: err,
		site:  fmt.Sprintf("%s (%s:%d)", name, file, line),
	}
}

type withStack struct {
	cause error
	site  string
}

func (w *withStack) Error() string {
	if w.site == "" {
		return w.cause.Error()
	}
	return w.cause.Error() + " | " + w.site
}

func (w *withStack) Unwrap() error { return w.cause }

func trimPkg(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
