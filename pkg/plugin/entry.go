package plugin

import (
	"errors"
	"sync"

	"github.com/plugforge/plugrt/pkg/framework/capability"
)

// Entry errors.
var (
	// ErrEntryNotInitialized reports use of an entry before Init.
	ErrEntryNotInitialized = errors.New("plugin: entry not initialized")
	// ErrMissingFactory reports an entry built without a factory.
	ErrMissingFactory = errors.New("plugin: entry has no factory")
	// ErrUnbalancedDeinit reports more Deinit than Init calls.
	ErrUnbalancedDeinit = errors.New("plugin: unbalanced entry deinit")
)

// Entry is the single well-known value a module exposes to embedders: the
// plugin factory plus module-level capability lookup. How the symbol is
// located on disk belongs to the embedding layer; this type only models the
// in-process shape.
//
// Init and Deinit are reference-counted so that several hosts inside one
// process, or re-entrant loads, share one initialization. Both run on the
// Main role.
type Entry struct {
	factory *Factory
	caps    *capability.Registry

	mu   sync.Mutex
	refs int
}

// NewEntry builds an entry over a factory. caps may be nil when the module
// exposes no module-level capabilities.
func NewEntry(factory *Factory, caps *capability.Registry) *Entry {
	if caps == nil {
		caps = capability.NewRegistry()
	}
	return &Entry{factory: factory, caps: caps}
}

// Init initializes the entry, or bumps the reference count when already
// initialized.
func (e *Entry) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.factory == nil {
		return ErrMissingFactory
	}
	e.refs++
	return nil
}

// Deinit drops one reference. The final reference releases the entry; an
// extra Deinit is a typed error, never a crash.
func (e *Entry) Deinit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.refs == 0 {
		return ErrUnbalancedDeinit
	}
	e.refs--
	return nil
}

// Initialized reports whether the entry currently holds references.
func (e *Entry) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refs > 0
}

// Factory returns the plugin factory, failing before Init.
func (e *Entry) Factory() (*Factory, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.refs == 0 {
		return nil, ErrEntryNotInitialized
	}
	return e.factory, nil
}

// Capability resolves a module-level capability.
func (e *Entry) Capability(id string) (capability.Handle, bool) {
	return e.caps.Query(id)
}
