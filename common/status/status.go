package status

import "sync/atomic"

type Status int64

const (
	Active Status = iota
	Closed
)

func (s *Status) Active() bool {
	return s.load() == Active
}

func (s *Status) Closed() bool {
	return s.load() == Closed
}

func (s *Status) load() Status {
	return Status(atomic.LoadInt64((*int64)(s)))
}

// CAS transitions the status from one value to another atomically and
// reports whether the transition happened.
func CAS(statusPointer *Status, from, to Status) bool {
	return atomic.CompareAndSwapInt64((*int64)(statusPointer), int64(from), int64(to))
}
