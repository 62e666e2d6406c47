package host

import (
	"fmt"
	"sync"

	"github.com/plugforge/plugrt/pkg/framework/capability"
	"github.com/plugforge/plugrt/pkg/plugin"
)

// The module cache is process-wide: loading the same name twice shares one
// entry initialization, and the entry is deinitialized only when the last
// module handle and session are gone.
var (
	cacheMu sync.Mutex
	cache   = map[string]*Module{}
)

// Module is a loaded plugin module: a reference-counted handle on an
// initialized entry. Handles for the same name share one Module.
type Module struct {
	name  string
	entry *plugin.Entry
	refs  int
}

// LoadModule resolves name in the process-wide cache, initializing the entry
// on first load. Every successful call must be paired with Release; sessions
// instantiated from the module hold their own reference.
//
// When the name is already cached the given entry is ignored and the cached
// one is shared.
func LoadModule(name string, entry *plugin.Entry) (*Module, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if m, ok := cache[name]; ok {
		m.refs++
		return m, nil
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: nil entry for %q", ErrPluginNotFound, name)
	}
	if err := entry.Init(); err != nil {
		return nil, err
	}
	m := &Module{name: name, entry: entry, refs: 1}
	cache[name] = m
	return m, nil
}

// Release drops one reference. The last reference evicts the module from
// the cache and deinitializes its entry.
func (m *Module) Release() error {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if m.refs == 0 {
		return plugin.ErrUnbalancedDeinit
	}
	m.refs--
	if m.refs == 0 {
		delete(cache, m.name)
		return m.entry.Deinit()
	}
	return nil
}

// Name returns the cache key the module was loaded under.
func (m *Module) Name() string { return m.name }

// Factory returns the module's plugin factory.
func (m *Module) Factory() (*plugin.Factory, error) {
	return m.entry.Factory()
}

// Capability resolves a module-level capability.
func (m *Module) Capability(id string) (capability.Handle, bool) {
	return m.entry.Capability(id)
}

func (m *Module) retain() {
	cacheMu.Lock()
	m.refs++
	cacheMu.Unlock()
}
