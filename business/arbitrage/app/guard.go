package app

import (
	"sync"
)

// ExecutionGuard serializes evaluation per pair. A cycle that is still
// running when the next tick fires must not be doubled up; each pair
// carries its own flag so a slow pair never blocks the others.
type ExecutionGuard struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewExecutionGuard creates an empty guard.
func NewExecutionGuard() *ExecutionGuard {
	return &ExecutionGuard{held: make(map[string]bool)}
}

// TryAcquire takes the pair's flag, reporting false if a cycle already
// holds it.
func (g *ExecutionGuard) TryAcquire(pair string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held[pair] {
		return false
	}
	g.held[pair] = true
	return true
}

// Release returns the pair's flag. Safe to call for a pair never acquired.
func (g *ExecutionGuard) Release(pair string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, pair)
}

// Held reports whether the pair's flag is currently taken.
func (g *ExecutionGuard) Held(pair string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held[pair]
}
