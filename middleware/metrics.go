package middleware

import (
	"github.com/kcmaxwell/flux/store"
	"github.com/uber-go/tally/v4"
)

// Instrument reports dispatch volume, failures and latency to scope.
func Instrument(scope tally.Scope) store.Middleware {
	dispatches := scope.Counter("dispatch")
	failures := scope.Counter("dispatch_error")
	latency := scope.Timer("dispatch_latency")
	return func(next store.Dispatcher) store.Dispatcher {
		return func(action store.Action) error {
			stopwatch := latency.Start()
			err := next(action)
			stopwatch.Stop()
			dispatches.Inc(1)
			if err != nil {
				failures.Inc(1)
			}
			return err
		}
	}
}
