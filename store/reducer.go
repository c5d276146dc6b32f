package store

// Reducer computes the next state from the current state and an action.
// A reducer must be pure: no I/O, no mutation of either input, and the same
// inputs always produce an equivalent output. For an action kind it does not
// recognize it must return the input state unchanged rather than fail, so
// that independent reducers combined over one composite state do not
// interfere with one another.
type Reducer[S any] func(state S, action Action) (S, error)

// Subscriber is invoked with no arguments after every successful state
// transition.
type Subscriber func()
