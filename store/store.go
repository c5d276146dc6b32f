// Package store implements a synchronous observable state container: one
// state value per store, replaced only through dispatched actions computed
// by a caller-supplied pure reducer, with ordered subscriber notification
// after every successful transition.
package store

import (
	"sync"

	"github.com/kcmaxwell/flux/common/safe"
	"github.com/kcmaxwell/flux/common/status"
	"github.com/kcmaxwell/flux/log"
)

// Store is the single authority over one state value. Every write funnels
// through Dispatch, so reasoning about state changes reduces to reasoning
// about the sequence of dispatched actions. A Store is safe for use from
// multiple goroutines.
type Store[S any] struct {
	logger   log.Logger
	reducer  Reducer[S]
	dispatch Dispatcher

	rwMutex *sync.RWMutex
	state   S

	subMutex      *sync.Mutex
	subscriptions []*subscription
}

type subscription struct {
	sub    Subscriber
	status status.Status
}

// New constructs a store over reducer. If no initial state is given via
// options, the reducer is invoked once with the zero state and Init and is
// expected to answer with its default.
func New[S any](reducer Reducer[S], options *Options[S]) (*Store[S], error) {
	if reducer == nil {
		return nil, &ConfigurationError{Reason: "reducer must not be nil"}
	}
	if options == nil {
		options = DefaultOptions[S]()
	}
	logger := options.logger
	if logger == nil {
		logger = log.Nop()
	}
	s := &Store[S]{
		logger:   logger,
		reducer:  reducer,
		rwMutex:  &sync.RWMutex{},
		subMutex: &sync.Mutex{},
	}
	if options.initialState != nil {
		s.state = *options.initialState
	} else {
		var zero S
		initialState, err := s.reduce(zero, Init{})
		if err != nil {
			return nil, &ConfigurationError{Reason: "reducer rejected the init action", Err: err}
		}
		s.state = initialState
	}
	s.dispatch = s.apply
	for i := len(options.middlewares) - 1; i >= 0; i-- {
		s.dispatch = options.middlewares[i](s.dispatch)
	}
	return s, nil
}

// GetState returns the current state. Callers must treat the returned value
// as immutable; the store never modifies a previously returned state in
// place, and neither may they.
func (s *Store[S]) GetState() S {
	s.rwMutex.RLock()
	defer s.rwMutex.RUnlock()
	return s.state
}

// Dispatch computes the next state from the current one and action, replaces
// the stored state and then notifies subscribers in registration order. If
// the reducer fails or panics, a *ReducerError is returned, the state is
// left untouched and no subscriber is notified.
//
// Dispatching from inside a subscriber is allowed and serializes: the nested
// dispatch completes, its notification round included, before the outer
// round continues.
func (s *Store[S]) Dispatch(action Action) error {
	if action == nil {
		return ErrNilAction
	}
	return s.dispatch(action)
}

func (s *Store[S]) apply(action Action) error {
	s.rwMutex.Lock()
	nextState, err := s.reduce(s.state, action)
	if err != nil {
		s.rwMutex.Unlock()
		return &ReducerError{ActionKind: action.Kind(), Err: err}
	}
	s.state = nextState
	s.rwMutex.Unlock()
	s.notify()
	return nil
}

func (s *Store[S]) reduce(state S, action Action) (nextState S, err error) {
	err = safe.Run(func() error {
		var reduceErr error
		nextState, reduceErr = s.reducer(state, action)
		return reduceErr
	})
	return nextState, err
}

// Subscribe registers sub to run after every future successful dispatch and
// returns the matching unsubscribe func. Unsubscribing is idempotent; the
// second call is a no-op. A subscriber registered while a notification round
// is in progress is not invoked for that round.
func (s *Store[S]) Subscribe(sub Subscriber) (unsubscribe func()) {
	entry := &subscription{sub: sub}
	s.subMutex.Lock()
	s.subscriptions = append(s.subscriptions, entry)
	s.subMutex.Unlock()
	return func() {
		if !status.CAS(&entry.status, status.Active, status.Closed) {
			return
		}
		s.subMutex.Lock()
		for i, candidate := range s.subscriptions {
			if candidate == entry {
				s.subscriptions = append(s.subscriptions[:i], s.subscriptions[i+1:]...)
				break
			}
		}
		s.subMutex.Unlock()
	}
}

// notify runs outside the state lock over a snapshot of the registry, so
// subscribers may read state, subscribe and dispatch freely. A panicking
// subscriber is logged and skipped; it never stops the rest of the round.
func (s *Store[S]) notify() {
	s.subMutex.Lock()
	round := make([]*subscription, len(s.subscriptions))
	copy(round, s.subscriptions)
	s.subMutex.Unlock()
	for _, entry := range round {
		if !entry.status.Active() {
			continue
		}
		sub := entry.sub
		if err := safe.Run(func() error {
			sub()
			return nil
		}); err != nil {
			s.logger.Warnw("subscriber panicked", "error", err)
		}
	}
}
