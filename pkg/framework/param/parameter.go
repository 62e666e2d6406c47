// Package param implements the parameter capability: typed parameter
// descriptions and a registry plugins publish for discovery.
package param

import (
	"math"
	"sync/atomic"
)

// Flags describe a parameter's behavior.
const (
	// CanAutomate marks a parameter the host may drive from events.
	CanAutomate uint32 = 1 << 0
	// IsStepped marks a parameter with discrete steps.
	IsStepped uint32 = 1 << 1
	// IsReadOnly marks a parameter the host may read but not set.
	IsReadOnly uint32 = 1 << 2
	// IsHidden keeps a parameter out of generic UIs.
	IsHidden uint32 = 1 << 3
	// IsBypass marks the plugin's bypass parameter.
	IsBypass uint32 = 1 << 4
)

// Parameter is one plugin parameter. The identity fields are immutable
// after registration; the value is atomic so the AudioProcessor role can
// read and write it without locks while the Main role observes it.
type Parameter struct {
	ID      uint32
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
	Flags   uint32

	value atomic.Uint64
}

// New creates a parameter initialized to its default value.
func New(id uint32, name string, min, max, def float64) *Parameter {
	p := &Parameter{ID: id, Name: name, Min: min, Max: max, Default: def}
	p.SetPlain(def)
	return p
}

// WithUnit sets the display unit and returns the parameter.
func (p *Parameter) WithUnit(unit string) *Parameter {
	p.Unit = unit
	return p
}

// WithFlags sets the behavior flags and returns the parameter.
func (p *Parameter) WithFlags(flags uint32) *Parameter {
	p.Flags = flags
	return p
}

// Value returns the current normalized value in [0,1].
func (p *Parameter) Value() float64 {
	return math.Float64frombits(p.value.Load())
}

// SetValue stores a normalized value, clamped to [0,1].
func (p *Parameter) SetValue(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.value.Store(math.Float64bits(v))
}

// Plain returns the current value in the parameter's own unit range.
func (p *Parameter) Plain() float64 {
	return p.Min + p.Value()*(p.Max-p.Min)
}

// SetPlain stores a value given in the parameter's own unit range.
func (p *Parameter) SetPlain(plain float64) {
	if p.Max <= p.Min {
		p.SetValue(0)
		return
	}
	p.SetValue((plain - p.Min) / (p.Max - p.Min))
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.SetPlain(p.Default)
}
