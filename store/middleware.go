package store

// Dispatcher is the dispatch entry point as seen by middleware.
type Dispatcher func(action Action) error

// Middleware wraps a store's dispatcher. The first middleware installed is
// the outermost one: it observes the action before all others and the error
// after all others.
type Middleware func(next Dispatcher) Dispatcher
