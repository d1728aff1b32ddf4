package capture

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeSource feeds messages from a channel. Raw input payloads are keyed by LParam.
type fakeSource struct {
	msgs     chan Message
	payloads map[uintptr]RawInput

	mu         sync.Mutex
	decoded    int
	dispatched []Message
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		msgs:     make(chan Message, 16),
		payloads: make(map[uintptr]RawInput),
	}
}

func (f *fakeSource) Next() (Message, bool) {
	msg, ok := <-f.msgs
	return msg, ok
}

func (f *fakeSource) Decode(msg Message) (RawInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decoded++
	in, ok := f.payloads[msg.LParam]
	if !ok {
		return RawInput{}, ErrDecode
	}
	return in, nil
}

func (f *fakeSource) Dispatch(msg Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, msg)
}

func (f *fakeSource) dispatchedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dispatched)
}

func (f *fakeSource) decodedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decoded
}

// inject queues a raw input message carrying in
func (f *fakeSource) inject(id uintptr, in RawInput) {
	f.mu.Lock()
	f.payloads[id] = in
	f.mu.Unlock()
	f.msgs <- Message{ID: messageInput, LParam: id}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func runLoop(s *Session, src MessageSource) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- NewLoop(s.Gate(), s).Run(src)
	}()
	return done
}

func waitExit(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error from Run, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after source shutdown")
	}
}

func TestMessageIsRawInput(t *testing.T) {
	if !(Message{ID: 0x00FF}).IsRawInput() {
		t.Error("Expected WM_INPUT to be raw input")
	}
	if (Message{ID: 0x0200}).IsRawInput() {
		t.Error("Expected WM_MOUSEMOVE not to be raw input")
	}
}

func TestLoopEndToEnd(t *testing.T) {
	s := NewSession(0)
	src := newFakeSource()
	done := runLoop(s, src)

	s.Toggle()
	src.inject(1, mouse(1, 0))
	src.inject(2, mouse(0, 0))
	src.inject(3, mouse(0, -3))
	waitFor(t, "three dispatched messages", func() bool { return src.dispatchedCount() == 3 })

	want := []Movement{{DX: 1, DY: 0}, {DX: 0, DY: -3}}
	if got := s.Pending(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected buffer %v, got %v", want, got)
	}

	_, batch := s.Toggle()
	if !reflect.DeepEqual(batch.Movements, want) {
		t.Errorf("Expected drained %v, got %v", want, batch.Movements)
	}
	if n := len(s.Pending()); n != 0 {
		t.Errorf("Expected empty buffer after pause, got %d", n)
	}

	close(src.msgs)
	s.Resume()
	waitExit(t, done)
}

func TestLoopWaitsWhileClosed(t *testing.T) {
	s := NewSession(0)
	src := newFakeSource()
	done := runLoop(s, src)

	src.inject(1, mouse(4, 4))
	time.Sleep(50 * time.Millisecond)

	if n := src.dispatchedCount(); n != 0 {
		t.Errorf("Expected no dispatch while paused, got %d", n)
	}
	if n := len(s.Pending()); n != 0 {
		t.Errorf("Expected no movements while paused, got %d", n)
	}

	close(src.msgs)
	s.Resume()
	waitExit(t, done)

	// The queued message is delivered once listening resumes
	if got := s.Pending(); len(got) != 1 {
		t.Errorf("Expected queued movement after resume, got %v", got)
	}
}

func TestLoopDropsMessageAfterPause(t *testing.T) {
	s := NewSession(0)
	src := newFakeSource()
	done := runLoop(s, src)

	s.Resume()
	src.inject(1, mouse(1, 1))
	waitFor(t, "first dispatch", func() bool { return src.dispatchedCount() == 1 })

	// Whether the loop is blocked in Next or back on the gate, nothing is recorded
	s.Pause()
	src.inject(2, mouse(9, 9))
	time.Sleep(50 * time.Millisecond)

	if n := len(s.Pending()); n != 0 {
		t.Errorf("Expected message after pause to be ignored, got %d movements", n)
	}
	if n := src.decodedCount(); n != 1 {
		t.Errorf("Expected only the first message decoded, got %d", n)
	}

	close(src.msgs)
	s.Resume()
	waitExit(t, done)
}

func TestLoopSkipsUndecodable(t *testing.T) {
	s := NewSession(0)
	src := newFakeSource()
	done := runLoop(s, src)

	s.Resume()
	src.msgs <- Message{ID: messageInput, LParam: 42}
	src.inject(1, mouse(2, 3))
	src.msgs <- Message{ID: 0x0113}
	waitFor(t, "three dispatched messages", func() bool { return src.dispatchedCount() == 3 })

	want := []Movement{{DX: 2, DY: 3}}
	if got := s.Pending(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if n := src.decodedCount(); n != 2 {
		t.Errorf("Expected 2 decode attempts, got %d", n)
	}

	close(src.msgs)
	waitExit(t, done)
}

func TestStartWithOpenError(t *testing.T) {
	s := NewSession(0)
	_, err := StartWith(s, func() (MessageSource, error) {
		return nil, ErrRegisterDevices
	})
	if !errors.Is(err, ErrRegisterDevices) {
		t.Fatalf("Expected ErrRegisterDevices, got %v", err)
	}
}

func TestStartWithRunsLoop(t *testing.T) {
	s := NewSession(0)
	src := newFakeSource()

	pump, err := StartWith(s, func() (MessageSource, error) { return src, nil })
	if err != nil {
		t.Fatalf("StartWith failed: %v", err)
	}

	if _, err := StartWith(s, func() (MessageSource, error) { return src, nil }); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Expected ErrAlreadyStarted, got %v", err)
	}

	s.Resume()
	src.inject(1, mouse(-2, 5))
	waitFor(t, "dispatch", func() bool { return src.dispatchedCount() == 1 })

	close(src.msgs)
	select {
	case <-pump.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Pump did not stop after source shutdown")
	}
	if err := pump.Err(); err != nil {
		t.Errorf("Expected nil pump error, got %v", err)
	}
	if got := s.Pending(); len(got) != 1 {
		t.Errorf("Expected 1 movement, got %v", got)
	}
}
