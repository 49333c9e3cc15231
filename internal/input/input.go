// Package input queues key presses delivered by a frontend until the
// scripts read them.
package input

import "sync"

// MaxQueued is the number of keys kept, older keys are dropped first.
const MaxQueued = 16

// Queue is a key source that is safe for concurrent use.
type Queue struct {
	mu   sync.Mutex
	keys []int
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a key press.
func (q *Queue) Push(key int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.keys) == MaxQueued {
		q.keys = q.keys[1:]
	}
	q.keys = append(q.keys, key)
}

// Key removes and returns the oldest key press.
func (q *Queue) Key() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.keys) == 0 {
		return 0, false
	}
	key := q.keys[0]
	q.keys = q.keys[1:]
	return key, true
}

// Len returns the number of queued keys.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.keys)
}
