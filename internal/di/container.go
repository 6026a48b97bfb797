// Package di provides a minimal string-token service container used by the
// module system to share constructed services across bounded contexts.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	Get(token string) any
}

// Container registers and resolves services by token.
type Container interface {
	ServiceRegistry
	Register(token string, service any)
}

type container struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{services: make(map[string]any)}
}

func (c *container) Register(token string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[token]; exists {
		panic(fmt.Sprintf("di: %s already registered", token))
	}
	c.services[token] = service
}

func (c *container) Get(token string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	svc, ok := c.services[token]
	if !ok {
		panic(fmt.Sprintf("di: %s not registered", token))
	}
	return svc
}

// Resolve fetches a service and asserts its type.
func Resolve[T any](r ServiceRegistry, token string) T {
	svc, ok := r.Get(token).(T)
	if !ok {
		panic(fmt.Sprintf("di: %s has unexpected type %T", token, r.Get(token)))
	}
	return svc
}
