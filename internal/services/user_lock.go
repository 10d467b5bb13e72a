package services

import (
	"sync"

	"github.com/google/uuid"
)

// userLocks serializes pipeline work per user while leaving different
// users fully independent. The running-average update in the value map is
// a read-modify-write; without this, concurrent integrations for the same
// user drift. Process-scoped; multi-process deployments rely on row-level
// locking instead.
type userLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: map[uuid.UUID]*sync.Mutex{}}
}

// Lock acquires the user's mutex and returns the unlock func.
func (l *userLocks) Lock(userID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
