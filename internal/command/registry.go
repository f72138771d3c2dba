package command

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrDuplicateAlias is returned when a canonical alias is already taken.
	ErrDuplicateAlias = errors.New("command: duplicate canonical alias")
	// ErrNoAlias is returned for a descriptor without aliases.
	ErrNoAlias = errors.New("command: descriptor has no aliases")
)

// Registry stores commands by canonical alias and keeps registration order.
// It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	order       []Command
	byCanonical map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byCanonical: make(map[string]Command)}
}

// Register adds c and returns it, so callers can chain it into a subscription.
// Registering the same command value twice is a no-op; a different command
// with a taken canonical alias is rejected with ErrDuplicateAlias.
func (r *Registry) Register(c Command) (Command, error) {
	d := c.Describe()
	key := d.Canonical()
	if key == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoAlias, d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byCanonical[key]; ok {
		if sameCommand(existing, c) {
			return c, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrDuplicateAlias, key)
	}
	r.byCanonical[key] = c
	r.order = append(r.order, c)
	return c, nil
}

// Get returns the command registered under the canonical alias.
func (r *Registry) Get(canonical string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byCanonical[canonical]
	return c, ok
}

// Lookup finds a command by any of its aliases. A canonical alias match takes
// precedence; otherwise the earliest registration carrying alias wins.
func (r *Registry) Lookup(alias string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.byCanonical[alias]; ok {
		return c, true
	}
	for _, c := range r.order {
		if c.Describe().HasAlias(alias) {
			return c, true
		}
	}
	return nil, false
}

// All returns every command in registration order.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// ListByModule returns the commands of module m in registration order.
func (r *Registry) ListByModule(m Module) []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Command
	for _, c := range r.order {
		if c.Describe().Module == m {
			out = append(out, c)
		}
	}
	return out
}

// SameRoot reports whether a and b wrap the same underlying command.
func SameRoot(a, b Command) bool {
	return sameCommand(Root(a), Root(b))
}

func sameCommand(a, b Command) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}
