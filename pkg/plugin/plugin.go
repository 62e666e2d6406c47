package plugin

import (
	"github.com/plugforge/plugrt/pkg/framework/capability"
	"github.com/plugforge/plugrt/pkg/framework/process"
)

// AudioConfig is the activation configuration negotiated by the host.
type AudioConfig struct {
	SampleRate float64
	// MinFrames and MaxFrames bound the frame count of every render call
	// until deactivation.
	MinFrames uint32
	MaxFrames uint32
}

// Host is what a plugin sees of the process that instantiated it.
// Implemented by the host layer; handed to the factory at instantiation.
type Host interface {
	// Name returns the host's display name.
	Name() string

	// Capability resolves a host-provided capability, such as the log
	// sink or the thread checker. Absence means unsupported.
	Capability(id string) (capability.Handle, bool)

	// RequestCallback asks the host to invoke the plugin's main-thread
	// callback capability soon, on the Main role. It may be called from
	// any role and never blocks; this is the only deferred-work
	// mechanism the core offers.
	RequestCallback()
}

// Plugin is the interface a loadable plugin implements.
//
// Lifecycle calls arrive on the Main role: Init, Destroy, Activate,
// Deactivate. Processing calls arrive on the AudioProcessor role:
// StartProcessing, StopProcessing, Reset, Process. The host guarantees the
// two roles never overlap a lifecycle call with a processing call.
//
// Process must not allocate, block, or panic; a panic is caught at the
// boundary and converted into an error status, but by then the block is
// lost.
type Plugin interface {
	// Init finishes construction. Called exactly once before any other
	// call; failure abandons the instance.
	Init() error

	// Destroy releases everything. Called exactly once, last.
	Destroy()

	// Activate creates the audio-processor partition for the given
	// configuration. The plugin may reject a configuration it cannot
	// honor.
	Activate(cfg AudioConfig) error

	// Deactivate destroys the audio-processor partition. Always paired
	// with a preceding successful Activate.
	Deactivate()

	// StartProcessing arms the render path.
	StartProcessing() error

	// StopProcessing disarms the render path.
	StopProcessing()

	// Reset clears voices, tails and other render-path state without
	// deactivating.
	Reset()

	// Process renders one block.
	Process(ctx *process.Context) process.Status

	// Capabilities returns the plugin's capability registry. Resolved
	// once per session and cacheable.
	Capabilities() *capability.Registry
}
