package di

import (
	"sync"
)

// Token is a typed handle for a service in the container. The string name
// only needs to be unique; type safety comes from the generic parameter.
type Token[T any] struct {
	name string
}

// NewToken creates a typed token.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry key.
func (t Token[T]) Name() string { return t.name }

// lazy memoizes a factory so each token constructs its service once.
type lazy[T any] struct {
	once    sync.Once
	factory func(ServiceRegistry) T
	value   T
}

func (l *lazy[T]) get(sr ServiceRegistry) T {
	l.once.Do(func() {
		l.value = l.factory(sr)
	})
	return l.value
}

// RegisterToken registers a lazily constructed singleton under the token.
// The factory runs on first resolution, not at registration.
func RegisterToken[T any](c Container, t Token[T], factory func(ServiceRegistry) T) {
	c.Register(t.name, &lazy[T]{factory: factory})
}

// GetToken resolves the token, constructing the service on first use.
func GetToken[T any](r ServiceRegistry, t Token[T]) T {
	entry, ok := r.Get(t.name).(*lazy[T])
	if !ok {
		return Resolve[T](r, t.name)
	}
	return entry.get(r)
}
