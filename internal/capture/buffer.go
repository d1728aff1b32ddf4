package capture

import "sync"

// Buffer is an ordered, append-only list of movements until drained.
// A limit of 0 means unbounded.
type Buffer struct {
	mu      sync.Mutex
	moves   []Movement
	limit   int
	dropped int
}

// NewBuffer creates a buffer holding at most limit movements
func NewBuffer(limit int) *Buffer {
	if limit < 0 {
		limit = 0
	}
	return &Buffer{limit: limit}
}

// Append adds a movement. It returns false if the buffer is full.
func (b *Buffer) Append(m Movement) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit > 0 && len(b.moves) >= b.limit {
		b.dropped++
		return false
	}
	b.moves = append(b.moves, m)
	return true
}

// Drain returns the buffered movements and empties the buffer
func (b *Buffer) Drain() Batch {
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := Batch{Movements: b.moves, Dropped: b.dropped}
	if batch.Movements == nil {
		batch.Movements = []Movement{}
	}
	b.moves = nil
	b.dropped = 0
	return batch
}

// Snapshot returns a copy of the buffered movements
func (b *Buffer) Snapshot() []Movement {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Movement, len(b.moves))
	copy(out, b.moves)
	return out
}

// Len returns the number of buffered movements
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.moves)
}

// Dropped returns how many movements were rejected since the last drain
func (b *Buffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
