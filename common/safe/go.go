package safe

import (
	"github.com/pkg/errors"
)

//be safe, don't panic

// Run invokes fn and converts a panic into a returned error carrying the
// recovered value and a stack trace.
func Run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch x := r.(type) {
			case error:
				err = errors.WithStack(x)
			default:
				err = errors.Errorf("panic: %v", x)
			}
		}
	}()
	err = fn()
	return err
}
