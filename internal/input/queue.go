// Package input turns key press and release events into the direction fed
// to each round.
package input

import "tileworld/internal/engine"

// Queue remembers taps between rounds and falls back to held keys. The zero
// value is ready to use.
type Queue struct {
	held  [4]bool
	queue []engine.Direction
}

// Press records a key press for dir.
func (q *Queue) Press(dir engine.Direction) {
	if !dir.Moving() {
		return
	}
	q.held[dir] = true
	if len(q.queue) == 0 || len(q.queue) == 1 && q.queue[0] != dir {
		q.queue = append([]engine.Direction{dir}, q.queue...)
	}
}

// Release records a key release for dir. When nothing is queued, another key
// that is still held takes over.
func (q *Queue) Release(dir engine.Direction) {
	if !dir.Moving() {
		return
	}
	q.held[dir] = false
	if len(q.queue) != 0 {
		return
	}
	for d, down := range q.held {
		if down {
			q.queue = append(q.queue, engine.Direction(d))
			return
		}
	}
}

// Current returns the direction for the next round, or engine.NoDirection.
func (q *Queue) Current() engine.Direction {
	if len(q.queue) == 0 {
		return engine.NoDirection
	}
	return q.queue[0]
}

// Consume is called after a round ran with dir. A released key leaves the
// queue once it has been used.
func (q *Queue) Consume(dir engine.Direction) {
	if !dir.Moving() || q.held[dir] {
		return
	}
	for i, d := range q.queue {
		if d == dir {
			q.queue = append(q.queue[:i], q.queue[i+1:]...)
			return
		}
	}
}

// Held reports whether the key for dir is down.
func (q *Queue) Held(dir engine.Direction) bool {
	return dir.Moving() && q.held[dir]
}

// Reset forgets every key and queued direction.
func (q *Queue) Reset() {
	q.held = [4]bool{}
	q.queue = q.queue[:0]
}
