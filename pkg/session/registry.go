package session

import (
	"slices"
	"strings"
	"sync"
)

// Registry indexes open views by ID.
type Registry struct {
	mu    sync.RWMutex
	views map[string]*View
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{views: make(map[string]*View)}
}

// Add registers v.
func (r *Registry) Add(v *View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[v.ID] = v
}

// Get returns the view with the given ID, or ErrNotFound.
func (r *Registry) Get(id string) (*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// Remove closes and unregisters the view with the given ID.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return v.Close()
}

// List returns all views, oldest first.
func (r *Registry) List() []*View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *View) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Close closes every view and empties the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()

	var first error
	for _, v := range views {
		if err := v.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
