package process

import (
	"github.com/plugforge/plugrt/pkg/framework/audio"
	"github.com/plugforge/plugrt/pkg/framework/event"
)

// Context is one render call: a frame count, the audio views, the event
// queue pair and timing metadata. It is valid only for the duration of a
// single block; plugins must not retain it or anything it references.
type Context struct {
	// FrameCount is the number of samples to render in this block.
	FrameCount uint32

	// SteadyTime is a monotonically increasing sample counter across
	// blocks, or a negative value when the host cannot provide one.
	SteadyTime int64

	// Transport is the block's transport state, or nil when the host is
	// free-running.
	Transport *event.TransportEvent

	// AudioIn and AudioOut are the port view sets. Either may be nil for
	// pure generators or sinks.
	AudioIn  *audio.Buffers
	AudioOut *audio.Buffers

	// EventsIn is the ordered input event view; EventsOut is the
	// append-only output sink. Both are never nil during a render call.
	EventsIn  *event.InputQueue
	EventsOut *event.OutputQueue
}

// Validate checks the cross-cutting preconditions of a render call: every
// buffer set shares the context's frame count and paired ports agree on
// precision. Per-port channel validation already happened at bind time.
func (c *Context) Validate() error {
	if c.AudioIn != nil && c.AudioIn.FrameCount() != c.FrameCount {
		return audio.ErrFrameCountMismatch
	}
	if c.AudioOut != nil && c.AudioOut.FrameCount() != c.FrameCount {
		return audio.ErrFrameCountMismatch
	}
	return audio.CheckPairs(c.AudioIn, c.AudioOut)
}

// NumInputPorts returns the number of input ports.
func (c *Context) NumInputPorts() int {
	if c.AudioIn == nil {
		return 0
	}
	return c.AudioIn.PortCount()
}

// NumOutputPorts returns the number of output ports.
func (c *Context) NumOutputPorts() int {
	if c.AudioOut == nil {
		return 0
	}
	return c.AudioOut.PortCount()
}

// In returns the input port at the given index, or nil.
func (c *Context) In(port int) *audio.Port {
	if c.AudioIn == nil {
		return nil
	}
	return c.AudioIn.Port(port)
}

// Out returns the output port at the given index, or nil.
func (c *Context) Out(port int) *audio.Port {
	if c.AudioOut == nil {
		return nil
	}
	return c.AudioOut.Port(port)
}

// Playing reports whether the block's transport says the host is playing.
func (c *Context) Playing() bool {
	return c.Transport != nil && c.Transport.TransportFlags&event.TransportIsPlaying != 0
}
