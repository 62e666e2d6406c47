// Package capability implements string-identified feature discovery.
//
// Hosts and plugins use the same mechanism: optional features are published
// under a string identifier and resolved by lookup, never by static type.
// A Registry is populated during setup and read-only afterwards, so queries
// need no locking and handles can be cached for the lifetime of a session.
package capability

// Handle is an opaque token bound to a capability identifier.
//
// A Handle carries no ownership; the implementation behind it lives for as
// long as the registry that produced it.
type Handle struct {
	impl any
}

// Impl returns the implementation the handle was registered with.
func (h Handle) Impl() any {
	return h.impl
}

type entry struct {
	id     string
	handle Handle
}

// Registry maps capability identifiers to opaque handles.
//
// Lookup is a linear scan over a small static table: registries hold tens
// of entries and are only consulted at session setup, never on the render
// path.
type Registry struct {
	entries []entry
}

// NewRegistry creates an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register binds impl to the given identifier.
//
// The first registration for an identifier wins; later registrations for
// the same identifier are ignored.
func (r *Registry) Register(id string, impl any) {
	for i := range r.entries {
		if r.entries[i].id == id {
			return
		}
	}
	r.entries = append(r.entries, entry{id: id, handle: Handle{impl: impl}})
}

// Query resolves an identifier to its handle.
//
// An unknown identifier is not an error: it reports false, and callers must
// treat absence as "unsupported".
func (r *Registry) Query(id string) (Handle, bool) {
	for i := range r.entries {
		if r.entries[i].id == id {
			return r.entries[i].handle, true
		}
	}
	return Handle{}, false
}

// Len returns the number of registered capabilities.
func (r *Registry) Len() int {
	return len(r.entries)
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.entries))
	for i := range r.entries {
		ids[i] = r.entries[i].id
	}
	return ids
}
