package capture

import (
	"log"
	"runtime"
)

// Loop pumps platform messages while the gate is open and hands raw
// input to its handler. It blocks on the gate while closed.
type Loop struct {
	gate    *Gate
	handler Handler
}

// NewLoop creates a capture loop over a gate and a handler
func NewLoop(gate *Gate, handler Handler) *Loop {
	return &Loop{
		gate:    gate,
		handler: handler,
	}
}

// Run alternates between waiting on the gate and dispatching messages.
// It only returns when the source reports that the pump is shutting down.
func (l *Loop) Run(src MessageSource) error {
	for {
		l.gate.Wait()
		if !l.dispatch(src) {
			log.Println("Capture: message pump closed")
			return nil
		}
	}
}

// dispatch handles messages until the gate closes (true) or the source shuts down (false)
func (l *Loop) dispatch(src MessageSource) bool {
	for {
		msg, ok := src.Next()
		if !ok {
			return false
		}

		// Closed while blocked in Next: the message belongs to a paused session
		if !l.gate.IsOpen() {
			src.Dispatch(msg)
			return true
		}

		if msg.IsRawInput() {
			in, err := src.Decode(msg)
			if err != nil {
				log.Printf("Capture: %v", err)
			} else {
				l.handler.OnRawInput(in)
			}
		}
		src.Dispatch(msg)

		if !l.gate.IsOpen() {
			return true
		}
	}
}

// Opener creates the platform message source. It is called on the
// goroutine that will pump the source.
type Opener func() (MessageSource, error)

// Pump is a capture loop running on its own OS thread
type Pump struct {
	done chan struct{}
	err  error
}

// Done is closed when the loop exits
func (p *Pump) Done() <-chan struct{} {
	return p.done
}

// Err returns the loop's exit error once Done is closed
func (p *Pump) Err() error {
	<-p.done
	return p.err
}

// Start opens the raw mouse source for this platform and runs the session's
// capture loop. Registration failures are returned before the loop runs.
func Start(s *Session) (*Pump, error) {
	return StartWith(s, openPlatform)
}

// StartWith is Start with an explicit source opener
func StartWith(s *Session, open Opener) (*Pump, error) {
	if err := s.markStarted(); err != nil {
		return nil, err
	}

	p := &Pump{done: make(chan struct{})}
	ready := make(chan error, 1)

	go func() {
		// The window and its queue belong to the thread that created them
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(p.done)

		src, err := open()
		if err != nil {
			p.err = err
			ready <- err
			return
		}
		ready <- nil

		log.Println("Capture: raw mouse input registered, waiting for listening gate")
		p.err = NewLoop(s.Gate(), s).Run(src)
	}()

	if err := <-ready; err != nil {
		return nil, err
	}
	return p, nil
}
