// Package hub tracks live chat sockets per user on this instance.
package hub

import (
	"errors"
	"sync"
)

const DefaultMaxConnsPerUser = 5

var ErrTooManyConnections = errors.New("user connection limit reached")

type Hub struct {
	mu    sync.Mutex
	max   int
	conns map[string]int
	total int
}

func New(maxPerUser int) *Hub {
	if maxPerUser <= 0 {
		maxPerUser = DefaultMaxConnsPerUser
	}
	return &Hub{max: maxPerUser, conns: make(map[string]int)}
}

// Acquire reserves a slot for userID. The returned release func is idempotent.
func (h *Hub) Acquire(userID string) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[userID] >= h.max {
		return nil, ErrTooManyConnections
	}
	h.conns[userID]++
	h.total++

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.conns[userID]--
			h.total--
			if h.conns[userID] <= 0 {
				delete(h.conns, userID)
			}
		})
	}, nil
}

func (h *Hub) Count(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conns[userID]
}

// Online reports the number of users with at least one socket.
func (h *Hub) Online() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) Total() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}
