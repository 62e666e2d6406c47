// Package plugin defines the module-side surface of the boundary: the
// descriptor, the plugin interface, the factory and the module entry point.
package plugin

import "errors"

// Standard feature tags for Descriptor.Features.
const (
	FeatureInstrument  = "instrument"
	FeatureAudioEffect = "audio-effect"
	FeatureNoteEffect  = "note-effect"
	FeatureAnalyzer    = "analyzer"
	FeatureMono        = "mono"
	FeatureStereo      = "stereo"
	FeatureSurround    = "surround"
)

// ErrInvalidDescriptor reports a descriptor without a usable identity.
var ErrInvalidDescriptor = errors.New("plugin: descriptor has no ID")

// Descriptor is a plugin's immutable identity metadata. It is created once
// when the module loads, shared read-only, and lives for the module's
// lifetime.
type Descriptor struct {
	// ID is the unique, reverse-domain identity, e.g. "com.example.gain".
	ID          string
	Name        string
	Vendor      string
	URL         string
	Version     string
	Description string
	Features    []string
}

// Validate checks the descriptor can identify a plugin.
func (d *Descriptor) Validate() error {
	if d.ID == "" {
		return ErrInvalidDescriptor
	}
	return nil
}

// HasFeature reports whether the descriptor carries the given feature tag.
func (d *Descriptor) HasFeature(feature string) bool {
	for _, f := range d.Features {
		if f == feature {
			return true
		}
	}
	return false
}
