// Package tool manages frontend tool handlers.
//
// Handlers execute locally when the agent invokes a tool by name. Each
// client owns its own Registry, so independent clients can register
// different handlers and be torn down without affecting each other.
package tool

import (
	"context"
	"sync"
)

// Handler executes a frontend tool call. args is the raw JSON argument
// string as received from the stream. The returned string is posted back
// to the server as the tool result.
type Handler func(ctx context.Context, args string) (string, error)

// Registry maps tool names to handlers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler under the given name.
// Returns an error if a handler with the same name is already registered.
func (r *Registry) Register(name string, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return &ErrToolAlreadyRegistered{Name: name}
	}
	r.handlers[name] = h
	return nil
}

// Unregister removes a handler. It is a no-op if the name is not
// registered.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, name)
}

// Get retrieves a handler by name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the names of all registered handlers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
