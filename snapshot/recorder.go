package snapshot

import (
	"sync/atomic"
	"time"

	"github.com/kcmaxwell/flux/common/status"
	"github.com/kcmaxwell/flux/log"
	"github.com/kcmaxwell/flux/store"
	"github.com/pkg/errors"
)

// Recorder subscribes to a store and persists its state to a backend every
// interval dispatches. A snapshot failure is logged, never propagated into
// the dispatch that triggered it: a persistence fault must not fail a state
// transition.
type Recorder[S any] struct {
	logger  log.Logger
	store   *store.Store[S]
	backend Backend
	name    string

	interval    int64
	dispatches  int64
	lastId      int64
	unsubscribe func()
	status      status.Status
}

// NewRecorder attaches a recorder to s, recording under name. The recorder
// does not own the store, but it does own the backend: Close closes it.
func NewRecorder[S any](logger log.Logger, s *store.Store[S], backend Backend, name string, interval int) (*Recorder[S], error) {
	if interval <= 0 {
		return nil, errors.Errorf("snapshot interval must be positive, got %d", interval)
	}
	r := &Recorder[S]{
		logger:   logger,
		store:    s,
		backend:  backend,
		name:     name,
		interval: int64(interval),
		//ids must increase strictly within a recorder; the wall-clock seed
		//keeps them increasing across restarts as long as the clock doesn't
		//step back past the previous run
		lastId: time.Now().UnixNano(),
	}
	r.unsubscribe = s.Subscribe(r.onDispatch)
	return r, nil
}

func (r *Recorder[S]) onDispatch() {
	if !r.status.Active() {
		return
	}
	if atomic.AddInt64(&r.dispatches, 1)%r.interval != 0 {
		return
	}
	if err := r.record(); err != nil {
		r.logger.Warnw("failed to record snapshot", "name", r.name, "error", err)
	}
}

// Flush takes a snapshot immediately, regardless of the dispatch interval.
func (r *Recorder[S]) Flush() error {
	if !r.status.Active() {
		return errors.Errorf("recorder %s is closed", r.name)
	}
	return r.record()
}

func (r *Recorder[S]) record() error {
	id := atomic.AddInt64(&r.lastId, 1)
	raw, err := encode(r.store.GetState())
	if err != nil {
		return err
	}
	if err := r.backend.Save(id, r.name, raw); err != nil {
		return errors.WithMessage(err, "failed to save snapshot")
	}
	if err := r.backend.Persist(id); err != nil {
		return errors.WithMessage(err, "failed to persist snapshot")
	}
	r.logger.Debugw("snapshot persisted", "name", r.name, "id", id)
	return nil
}

// Close detaches the recorder from its store and closes the backend. Safe
// to call more than once; only the first call does anything.
func (r *Recorder[S]) Close() error {
	if !status.CAS(&r.status, status.Active, status.Closed) {
		return nil
	}
	r.unsubscribe()
	return r.backend.Close()
}

// Restore decodes the latest snapshot persisted under name. The second
// return reports whether any snapshot existed; callers feed the restored
// state to store.Options.WithInitialState.
func Restore[S any](backend Backend, name string) (S, bool, error) {
	var zero S
	raw, err := backend.Latest(name)
	if err != nil {
		return zero, false, errors.WithMessage(err, "failed to read latest snapshot")
	}
	if raw == nil {
		return zero, false, nil
	}
	state, err := decode[S](raw)
	if err != nil {
		return zero, false, err
	}
	return state, true, nil
}
