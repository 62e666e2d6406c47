package param

import (
	"sync"

	"github.com/plugforge/plugrt/pkg/framework/event"
)

// Registry holds a plugin's parameters. Plugins publish it under the params
// capability identifier; hosts enumerate it at setup time.
//
// The registry itself is mutated only during setup (Main role); parameter
// values are atomic, so applying events from the render path needs no lock.
type Registry struct {
	params map[uint32]*Parameter
	order  []uint32
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{params: make(map[uint32]*Parameter)}
}

// Add registers parameters. A duplicate ID keeps the first registration.
func (r *Registry) Add(params ...*Parameter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			continue
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}
}

// Get retrieves a parameter by ID, or nil.
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.params[id]
}

// GetByIndex retrieves a parameter by registration index, or nil.
func (r *Registry) GetByIndex(index int) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.order) {
		return nil
	}
	return r.params[r.order[index]]
}

// Count returns the number of parameters.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// All returns the parameters in registration order.
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		out[i] = r.params[id]
	}
	return out
}

// Apply sets the addressed parameter from a value event. Unknown IDs are
// ignored: a host may carry parameters this plugin version dropped.
func (r *Registry) Apply(e event.ParamValueEvent) {
	if p := r.Get(e.ParamID); p != nil {
		p.SetValue(e.Value)
	}
}

// ResetAll restores every parameter to its default.
func (r *Registry) ResetAll() {
	for _, p := range r.All() {
		p.Reset()
	}
}
