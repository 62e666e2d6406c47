// Package ports implements the audio-ports capability: static descriptions
// of a plugin's port layout, consulted by the host before activation.
package ports

import (
	"fmt"

	"github.com/plugforge/plugrt/pkg/framework/audio"
)

// Direction of a port relative to the plugin.
type Direction int32

const (
	// DirectionInput feeds audio into the plugin.
	DirectionInput Direction = 0
	// DirectionOutput carries audio out of the plugin.
	DirectionOutput Direction = 1
)

// Kind distinguishes the main signal path from auxiliary ports.
type Kind int32

const (
	// KindMain is the primary signal path.
	KindMain Kind = 0
	// KindAux is an auxiliary path such as a sidechain.
	KindAux Kind = 1
)

// Info describes one port.
type Info struct {
	Name      string
	Direction Direction
	Channels  int32
	Kind      Kind
	// PreferredPrecision is the sample width the plugin processes
	// natively. Hosts may still bind the other width if the plugin
	// accepts it, but never mixed within a pair.
	PreferredPrecision audio.Precision
}

// Layout is a plugin's complete port description.
type Layout struct {
	inputs  []Info
	outputs []Info
}

// NewLayout creates an empty layout; chain Add calls to describe ports.
func NewLayout() *Layout {
	return &Layout{}
}

// NewStereoLayout describes the common one-stereo-in, one-stereo-out case.
func NewStereoLayout() *Layout {
	return NewLayout().
		AddInput(Info{Name: "Stereo In", Channels: 2, Kind: KindMain}).
		AddOutput(Info{Name: "Stereo Out", Channels: 2, Kind: KindMain})
}

// NewMonoLayout describes one mono input and one mono output.
func NewMonoLayout() *Layout {
	return NewLayout().
		AddInput(Info{Name: "Mono In", Channels: 1, Kind: KindMain}).
		AddOutput(Info{Name: "Mono Out", Channels: 1, Kind: KindMain})
}

// AddInput appends an input port and returns the layout.
func (l *Layout) AddInput(info Info) *Layout {
	info.Direction = DirectionInput
	l.inputs = append(l.inputs, info)
	return l
}

// AddOutput appends an output port and returns the layout.
func (l *Layout) AddOutput(info Info) *Layout {
	info.Direction = DirectionOutput
	l.outputs = append(l.outputs, info)
	return l
}

// InputCount returns the number of input ports.
func (l *Layout) InputCount() int { return len(l.inputs) }

// OutputCount returns the number of output ports.
func (l *Layout) OutputCount() int { return len(l.outputs) }

// Input returns the input port at index, or nil.
func (l *Layout) Input(i int) *Info {
	if i < 0 || i >= len(l.inputs) {
		return nil
	}
	return &l.inputs[i]
}

// Output returns the output port at index, or nil.
func (l *Layout) Output(i int) *Info {
	if i < 0 || i >= len(l.outputs) {
		return nil
	}
	return &l.outputs[i]
}

// Matches verifies that bound buffer sets agree with the layout: same port
// counts and same channel counts per port. A nil buffer set matches a side
// with no ports.
func (l *Layout) Matches(in, out *audio.Buffers) error {
	if err := matchSide("input", l.inputs, in); err != nil {
		return err
	}
	return matchSide("output", l.outputs, out)
}

func matchSide(side string, want []Info, got *audio.Buffers) error {
	gotPorts := 0
	if got != nil {
		gotPorts = got.PortCount()
	}
	if gotPorts != len(want) {
		return fmt.Errorf("ports: %s port count is %d, layout declares %d", side, gotPorts, len(want))
	}
	for i := range want {
		if ch := got.Port(i).ChannelCount(); int32(ch) != want[i].Channels {
			return fmt.Errorf("ports: %s port %d has %d channels, layout declares %d",
				side, i, ch, want[i].Channels)
		}
	}
	return nil
}
