package store

import "fmt"

var ErrNilAction = fmt.Errorf("can't dispatch nil action")

// ConfigurationError reports an invalid store construction. It is fatal:
// no usable store is returned alongside it.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("store configuration: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ReducerError wraps a failure inside the reducer during one dispatch.
// The store's state is guaranteed unchanged after this error and no
// subscriber was notified for the failed dispatch.
type ReducerError struct {
	ActionKind string
	Err        error
}

func (e *ReducerError) Error() string {
	return fmt.Sprintf("reducer failed on action %q: %v", e.ActionKind, e.Err)
}

func (e *ReducerError) Unwrap() error {
	return e.Err
}
