package util

import (
	"github.com/pkg/errors"
)

var (
	ErrPartialWrite = errors.New("partial write")
)

// PanicHandler calls fn and converts a panic into an error. It returns nil
// if fn returned normally.
//
// The tracer runs hooks inside of the traced application, so a bug of the
// tracer must not crash the application.
func PanicHandler(fn func()) (err error) {
	defer func() {
		if obj := recover(); obj != nil {
			if e, ok := obj.(error); ok {
				err = errors.WithStack(e)
			} else {
				err = errors.Errorf("%v", obj)
			}
		}
	}()
	fn()
	return nil
}
