package safe

import (
	"AProject/logger"
	"fmt"
	"reflect"
)

// MustNotNil panics if the given value is nil.
// Useful for enforcing required fields during struct initialization.
func MustNotNil(v any, name string) {
	if reflect.ValueOf(v).IsNil() {
		panic(fmt.Sprintf("%s must not be nil", name))
	}
}

// SafeGo starts a new goroutine that recovers from panic,
// so that panics don't crash the entire program.
func SafeGo(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[SafeGo] panic recovered: %v", r)
			}
		}()
		f()
	}()
}
