// Package middleware provides dispatch middlewares for observing a store:
// structured logging and metric reporting.
package middleware

import (
	"time"

	"github.com/kcmaxwell/flux/log"
	"github.com/kcmaxwell/flux/store"
)

// Logging records one debug line per successful dispatch with the action
// kind and elapsed time, and one warn line per failed dispatch.
func Logging(logger log.Logger) store.Middleware {
	return func(next store.Dispatcher) store.Dispatcher {
		return func(action store.Action) error {
			startTime := time.Now()
			if err := next(action); err != nil {
				logger.Warnw("dispatch failed",
					"kind", action.Kind(), "elapsed", time.Since(startTime), "error", err)
				return err
			}
			logger.Debugw("dispatch",
				"kind", action.Kind(), "elapsed", time.Since(startTime))
			return nil
		}
	}
}
