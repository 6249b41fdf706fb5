package server

import (
	"sync"
	"time"

	"github.com/matzehuels/storygraph/pkg/canvas"
)

// session is one hosted canvas and its live subscribers.
type session struct {
	id      string
	canvas  *canvas.Canvas
	created time.Time

	mu     sync.Mutex
	subs   map[chan canvas.Snapshot]struct{}
	closed bool
}

func newSession(id string, c *canvas.Canvas) *session {
	return &session{
		id:      id,
		canvas:  c,
		created: time.Now(),
		subs:    make(map[chan canvas.Snapshot]struct{}),
	}
}

// subscribe registers a listener for snapshots. The channel holds only the
// latest snapshot and is closed when the session is evicted or cancel is
// called.
func (s *session) subscribe() (<-chan canvas.Snapshot, func()) {
	ch := make(chan canvas.Snapshot, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
}

// publish sends the current snapshot to every subscriber, replacing any
// snapshot they have not read yet.
func (s *session) publish() {
	snap := s.canvas.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (s *session) subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// close ends every subscription.
func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
}
