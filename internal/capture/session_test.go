package capture

import (
	"reflect"
	"testing"
)

func mouse(dx, dy int32) RawInput {
	return RawInput{Type: DeviceMouse, DX: dx, DY: dy}
}

func TestToggleOpensAndCloses(t *testing.T) {
	s := NewSession(0)
	if s.Listening() {
		t.Fatal("Expected new session to be paused")
	}

	opened, _ := s.Toggle()
	if !opened || !s.Listening() {
		t.Error("Expected first toggle to open the gate")
	}

	opened, _ = s.Toggle()
	if opened || s.Listening() {
		t.Error("Expected second toggle to close the gate")
	}
}

func TestClosedGateRecordsNothing(t *testing.T) {
	s := NewSession(0)
	s.OnRawInput(mouse(5, 5))
	s.OnRawInput(mouse(-1, 2))

	if n := len(s.Pending()); n != 0 {
		t.Errorf("Expected no movements while paused, got %d", n)
	}
}

func TestOpenGateFiltering(t *testing.T) {
	tests := []struct {
		name string
		in   RawInput
		want int
	}{
		{"mouse move", mouse(3, -2), 1},
		{"horizontal only", mouse(1, 0), 1},
		{"vertical only", mouse(0, -1), 1},
		{"zero delta", mouse(0, 0), 0},
		{"keyboard", RawInput{Type: DeviceKeyboard, DX: 4, DY: 4}, 0},
		{"hid", RawInput{Type: DeviceHID, DX: 4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(0)
			s.Resume()
			s.OnRawInput(tt.in)
			if got := len(s.Pending()); got != tt.want {
				t.Errorf("Expected %d movements, got %d", tt.want, got)
			}
		})
	}
}

func TestCloseClearsBuffer(t *testing.T) {
	s := NewSession(0)
	s.Resume()
	s.OnRawInput(mouse(1, 1))

	opened, batch := s.Toggle()
	if opened {
		t.Fatal("Expected toggle to pause")
	}
	if len(batch.Movements) != 1 {
		t.Errorf("Expected 1 drained movement, got %d", len(batch.Movements))
	}
	if n := len(s.Pending()); n != 0 {
		t.Errorf("Expected empty buffer after pause, got %d", n)
	}
}

func TestSessionScenario(t *testing.T) {
	s := NewSession(0)
	s.Toggle()

	s.OnRawInput(mouse(1, 0))
	s.OnRawInput(mouse(0, 0))
	s.OnRawInput(mouse(0, -3))

	want := []Movement{{DX: 1, DY: 0}, {DX: 0, DY: -3}}
	if got := s.Pending(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Expected buffer %v, got %v", want, got)
	}

	_, batch := s.Toggle()
	if !reflect.DeepEqual(batch.Movements, want) {
		t.Errorf("Expected drained %v, got %v", want, batch.Movements)
	}
	if got := s.Pending(); len(got) != 0 {
		t.Errorf("Expected empty buffer after pause, got %v", got)
	}
}

func TestResumeAfterPauseStartsFresh(t *testing.T) {
	s := NewSession(0)
	s.Resume()
	s.OnRawInput(mouse(2, 2))
	s.Pause()

	s.Resume()
	s.OnRawInput(mouse(7, 0))

	want := []Movement{{DX: 7, DY: 0}}
	if got := s.Pending(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSessionBufferLimit(t *testing.T) {
	s := NewSession(1)
	s.Resume()
	s.OnRawInput(mouse(1, 0))
	s.OnRawInput(mouse(2, 0))
	s.OnRawInput(mouse(3, 0))

	batch := s.Pause()
	if len(batch.Movements) != 1 || batch.Dropped != 2 {
		t.Errorf("Expected 1 kept and 2 dropped, got %d kept and %d dropped", len(batch.Movements), batch.Dropped)
	}
}

func TestConcurrentToggleAndInput(t *testing.T) {
	s := NewSession(0)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			s.OnRawInput(mouse(1, 1))
		}
	}()

	total := 0
	for i := 0; i < 100; i++ {
		_, batch := s.Toggle()
		total += len(batch.Movements)
	}
	<-done
	_, batch := s.Toggle()
	total += len(batch.Movements)
	total += len(s.Pause().Movements)

	if total > 1000 {
		t.Errorf("Expected at most 1000 recorded movements, got %d", total)
	}
	if n := len(s.Pending()); n != 0 {
		t.Errorf("Expected empty buffer after final pause, got %d", n)
	}
}
