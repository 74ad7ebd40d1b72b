// Package session implements logical session slots: the parked-session
// registry and the double-tilde escape chord used to flip between
// sessions without killing their processes.
package session

import (
	"errors"

	"github.com/stylith/termdesk/internal/term"
)

// MaxSessions bounds the number of logical session slots (chord digits
// 1-9).
const MaxSessions = 9

// ErrTooManySessions is reported when a new slot would exceed
// MaxSessions.
var ErrTooManySessions = errors.New("session limit reached")

// Registry maps logical session indices to parked pty sessions. A slot
// is parked only while the user is not viewing it; the active slot's
// session lives in its window instead. Touched only by the UI
// goroutine.
type Registry struct {
	parked  map[int]*term.Session
	active  int
	count   int
	pending int
	hasReq  bool
}

func NewRegistry() *Registry {
	return &Registry{
		parked: make(map[int]*term.Session),
		count:  1,
	}
}

// Active returns the currently viewed slot index.
func (r *Registry) Active() int { return r.active }

// Count returns the number of slots ever created.
func (r *Registry) Count() int { return r.count }

// ValidTarget reports whether a chord digit may switch to slot i:
// an existing slot, or exactly the next free one.
func (r *Registry) ValidTarget(i int) bool {
	if i < 0 {
		return false
	}
	return i < r.count || (i == r.count && r.count < MaxSessions)
}

// RequestSwitch records a pending switch to slot i. Invalid targets
// are ignored.
func (r *Registry) RequestSwitch(i int) bool {
	if !r.ValidTarget(i) || i == r.active {
		return false
	}
	r.pending = i
	r.hasReq = true
	return true
}

func (r *Registry) HasSwitchRequest() bool { return r.hasReq }

// TakeSwitchRequest consumes the pending request, if any.
func (r *Registry) TakeSwitchRequest() (int, bool) {
	if !r.hasReq {
		return 0, false
	}
	r.hasReq = false
	return r.pending, true
}

// Park stores the session of slot i while the user looks elsewhere.
func (r *Registry) Park(i int, s *term.Session) {
	if s == nil {
		return
	}
	r.parked[i] = s
}

// Resume removes and returns the parked session for slot i. ok is
// false when the slot has no parked session and the caller must spawn
// a fresh one.
func (r *Registry) Resume(i int) (*term.Session, bool) {
	s, ok := r.parked[i]
	if ok {
		delete(r.parked, i)
	}
	return s, ok
}

// Parked reports whether slot i currently holds a parked session.
func (r *Registry) Parked(i int) bool {
	_, ok := r.parked[i]
	return ok
}

// SetActive marks slot i as the viewed one, growing the slot count
// when the switch created it.
func (r *Registry) SetActive(i int) {
	r.active = i
	if i >= r.count {
		r.count = i + 1
	}
}

// DropParked terminates and removes a parked session, for shutdown.
func (r *Registry) DropParked(i int) {
	if s, ok := r.parked[i]; ok {
		s.Terminate()
		delete(r.parked, i)
	}
}

// TerminateAll kills every parked session. The active session belongs
// to its window and is closed with it.
func (r *Registry) TerminateAll() {
	for i := range r.parked {
		r.DropParked(i)
	}
}
