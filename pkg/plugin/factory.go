package plugin

import "errors"

// Factory errors.
var (
	// ErrUnknownPluginID reports a create request for an identity the
	// factory does not carry.
	ErrUnknownPluginID = errors.New("plugin: unknown plugin ID")
	// ErrNilConstructor reports a registration without a constructor.
	ErrNilConstructor = errors.New("plugin: nil constructor")
)

// Constructor builds one plugin instance for the given host.
type Constructor func(host Host) Plugin

type factoryEntry struct {
	desc Descriptor
	ctor Constructor
}

// Factory enumerates a module's plugin identities and instantiates them.
//
// Registration happens at module load on the Main role; afterwards the
// factory is read-only.
type Factory struct {
	entries []factoryEntry
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Register adds a descriptor and its constructor. The first registration
// for an ID wins; duplicates are ignored, mirroring capability lookup.
func (f *Factory) Register(desc Descriptor, ctor Constructor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	if ctor == nil {
		return ErrNilConstructor
	}
	for i := range f.entries {
		if f.entries[i].desc.ID == desc.ID {
			return nil
		}
	}
	f.entries = append(f.entries, factoryEntry{desc: desc, ctor: ctor})
	return nil
}

// Count returns the number of plugin identities.
func (f *Factory) Count() int {
	return len(f.entries)
}

// DescriptorByIndex returns the descriptor at the given index, or nil.
func (f *Factory) DescriptorByIndex(i int) *Descriptor {
	if i < 0 || i >= len(f.entries) {
		return nil
	}
	return &f.entries[i].desc
}

// DescriptorByID returns the descriptor for the given ID, or nil.
func (f *Factory) DescriptorByID(id string) *Descriptor {
	for i := range f.entries {
		if f.entries[i].desc.ID == id {
			return &f.entries[i].desc
		}
	}
	return nil
}

// Create instantiates the plugin with the given ID. The instance is not
// yet initialized; the caller must run Init before anything else.
func (f *Factory) Create(host Host, id string) (Plugin, error) {
	for i := range f.entries {
		if f.entries[i].desc.ID == id {
			return f.entries[i].ctor(host), nil
		}
	}
	return nil, ErrUnknownPluginID
}
