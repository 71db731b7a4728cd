package errors

import (
	"fmt"
	"runtime/debug"
)

// RecoverPanic converts a recovered panic value into a fatal Error
// carrying the stack trace. Fatal errors skip the retry loop and go
// straight to the DLQ.
func RecoverPanic(r interface{}) error {
	if r == nil {
		return nil
	}

	var cause error
	switch v := r.(type) {
	case error:
		cause = v
	default:
		cause = fmt.Errorf("panic: %v", v)
	}

	return ErrInternal.
		WithCause(cause).
		WithDetail("panic", true).
		WithDetail("stack_trace", string(debug.Stack())).
		AsFatal()
}
