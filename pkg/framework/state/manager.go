// Package state implements the state capability: versioned binary
// serialization of parameter values plus optional plugin-defined payload.
package state

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/plugforge/plugrt/pkg/framework/param"
)

var magic = [4]byte{'P', 'L', 'R', 'T'}

const currentVersion uint32 = 1

// CustomSaveFunc writes plugin state beyond parameters.
type CustomSaveFunc func(w io.Writer) error

// CustomLoadFunc reads back what CustomSaveFunc wrote.
type CustomLoadFunc func(r io.Reader) error

// Manager saves and loads a plugin's state. Plugins publish it under the
// state capability identifier. Save and Load run on the Main role only.
type Manager struct {
	registry *param.Registry
	save     CustomSaveFunc
	load     CustomLoadFunc
}

// NewManager creates a state manager over a parameter registry.
func NewManager(registry *param.Registry) *Manager {
	return &Manager{registry: registry}
}

// SetCustomState installs hooks for state beyond parameters. Both hooks
// must be set together; the pair must round-trip.
func (m *Manager) SetCustomState(save CustomSaveFunc, load CustomLoadFunc) {
	m.save = save
	m.load = load
}

// Save writes the state: magic, version, parameter count, (id, normalized
// value) pairs, then the optional custom payload.
func (m *Manager) Save(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return fmt.Errorf("state: write magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, currentVersion); err != nil {
		return fmt.Errorf("state: write version: %w", err)
	}

	params := m.registry.All()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(params))); err != nil {
		return fmt.Errorf("state: write count: %w", err)
	}
	for _, p := range params {
		if err := binary.Write(w, binary.LittleEndian, p.ID); err != nil {
			return fmt.Errorf("state: write param id: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, p.Value()); err != nil {
			return fmt.Errorf("state: write param value: %w", err)
		}
	}

	hasCustom := uint32(0)
	if m.save != nil {
		hasCustom = 1
	}
	if err := binary.Write(w, binary.LittleEndian, hasCustom); err != nil {
		return fmt.Errorf("state: write custom flag: %w", err)
	}
	if m.save != nil {
		if err := m.save(w); err != nil {
			return fmt.Errorf("state: custom save: %w", err)
		}
	}
	return nil
}

// Load reads state written by Save. Parameter IDs the registry no longer
// knows are skipped, so old sessions load into newer plugin versions.
func (m *Manager) Load(r io.Reader) error {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return fmt.Errorf("state: read magic: %w", err)
	}
	if gotMagic != magic {
		return fmt.Errorf("state: bad magic %q", gotMagic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("state: read version: %w", err)
	}
	if version != currentVersion {
		return fmt.Errorf("state: unsupported version %d", version)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("state: read count: %w", err)
	}
	for i := uint32(0); i < count; i++ {
		var id uint32
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return fmt.Errorf("state: read param id: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return fmt.Errorf("state: read param value: %w", err)
		}
		if p := m.registry.Get(id); p != nil {
			p.SetValue(value)
		}
	}

	var hasCustom uint32
	if err := binary.Read(r, binary.LittleEndian, &hasCustom); err != nil {
		return fmt.Errorf("state: read custom flag: %w", err)
	}
	if hasCustom == 1 && m.load != nil {
		if err := m.load(r); err != nil {
			return fmt.Errorf("state: custom load: %w", err)
		}
	}
	return nil
}
