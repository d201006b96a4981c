package facet

import (
	"context"
	"reflect"
	"sync"
)

// Registration describes how raw items become typed resources.
type Registration struct {
	Name  string       // Name collections refer to
	Arity int          // Extra construction arguments required beyond the item
	Type  reflect.Type // Go type the factory produces
	New   func(item any, args ...any) (any, error)
}

// Is reports whether v already is an instance of the registered type.
func (r Registration) Is(v any) bool {
	if v == nil || r.Type == nil {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(r.Type)
}

var (
	registry   = make(map[string]Registration)
	registryMu sync.RWMutex
)

// Register records a factory under name. The factory receives the raw item
// followed by exactly arity extra arguments taken from the collection.
// Registering an existing name replaces it.
func Register[R any](name string, arity int, fn func(item any, args ...any) (R, error)) {
	if arity < 0 {
		arity = 0
	}
	reg := Registration{
		Name:  name,
		Arity: arity,
		Type:  reflect.TypeFor[R](),
		New: func(item any, args ...any) (any, error) {
			return fn(item, args...)
		},
	}

	registryMu.Lock()
	registry[name] = reg
	registryMu.Unlock()

	emitFactoryRegistered(context.Background(), name, reg.Type.String(), arity)
}

// Lookup returns the registration for name.
func Lookup(name string) (Registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[name]
	return reg, ok
}

// Reset clears the factory registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Registration)
}
