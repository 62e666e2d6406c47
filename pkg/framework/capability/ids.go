package capability

// Well-known capability identifiers shipped by this module.
//
// The identifier namespace itself belongs to the external boundary; these
// constants only name the capabilities implemented in this repository.
const (
	// IDThreadCheck resolves to a thread.Checker provided by the host.
	IDThreadCheck = "plugrt.thread-check"

	// IDLog resolves to a *debug.Logger provided by the host.
	IDLog = "plugrt.log"

	// IDParams resolves to a *param.Registry provided by the plugin.
	IDParams = "plugrt.params"

	// IDState resolves to a *state.Manager provided by the plugin.
	IDState = "plugrt.state"

	// IDAudioPorts resolves to a *ports.Layout provided by the plugin.
	IDAudioPorts = "plugrt.audio-ports"

	// IDLatency resolves to a LatencySource provided by the plugin.
	IDLatency = "plugrt.latency"

	// IDTail resolves to a TailSource provided by the plugin.
	IDTail = "plugrt.tail"

	// IDMainThreadCallback resolves to a MainThreadCallback provided by
	// the plugin, invoked after the plugin requested one via its host.
	IDMainThreadCallback = "plugrt.main-thread-callback"
)

// LatencySource reports the plugin's processing latency.
type LatencySource interface {
	LatencySamples() uint32
}

// TailSource reports how long the plugin keeps producing audio after its
// input goes silent.
type TailSource interface {
	TailSamples() uint32
}

// MainThreadCallback is invoked on the Main role after the plugin asked its
// host for a deferred callback.
type MainThreadCallback interface {
	OnMainThread()
}
