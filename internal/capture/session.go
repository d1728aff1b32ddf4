package capture

import (
	"log"
	"sync"
)

// Session owns the listening gate and the movement buffer shared by the
// capture loop and the control surface.
type Session struct {
	mu      sync.Mutex
	gate    *Gate
	buf     *Buffer
	started bool
}

// NewSession creates a paused session. limit caps the buffer, 0 for unbounded.
func NewSession(limit int) *Session {
	return &Session{
		gate: NewGate(),
		buf:  NewBuffer(limit),
	}
}

// Gate returns the session's listening gate
func (s *Session) Gate() *Gate {
	return s.gate
}

// OnRawInput records a mouse delta while listening.
// Non-mouse input and zero deltas are ignored.
func (s *Session) OnRawInput(in RawInput) {
	if in.Type != DeviceMouse {
		return
	}
	if in.DX == 0 && in.DY == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.IsOpen() {
		return
	}
	if !s.buf.Append(Movement{DX: in.DX, DY: in.DY}) && s.buf.Dropped() == 1 {
		log.Printf("Capture: buffer full (%d), dropping movements until next pause", s.buf.limit)
	}
}

// Resume opens the gate
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.Open()
}

// Pause closes the gate and drains the buffer in one step
func (s *Session) Pause() Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.Close()
	return s.buf.Drain()
}

// Toggle pauses a listening session or resumes a paused one.
// opened is the new gate state; batch is only filled when pausing.
func (s *Session) Toggle() (opened bool, batch Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gate.IsOpen() {
		s.gate.Close()
		return false, s.buf.Drain()
	}
	s.gate.Open()
	return true, Batch{}
}

// Listening reports whether the gate is open
func (s *Session) Listening() bool {
	return s.gate.IsOpen()
}

// Pending returns a copy of the movements captured since the last pause
func (s *Session) Pending() []Movement {
	return s.buf.Snapshot()
}

func (s *Session) markStarted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	return nil
}
