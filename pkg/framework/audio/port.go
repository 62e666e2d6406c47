package audio

import "errors"

// Binding and pairing errors. These are caller errors, reported before any
// render call runs; nothing in this package fails mid-block.
var (
	ErrRaggedChannels     = errors.New("audio: channels of one port differ in length")
	ErrFrameCountMismatch = errors.New("audio: port frame count differs from the call's frame count")
	ErrPrecisionMismatch  = errors.New("audio: paired input/output ports differ in sample precision")
	ErrNoChannels         = errors.New("audio: port has no channel storage")
)

// Precision is the sample width of a port. A port is exclusively narrow or
// wide; mixing widths inside one port does not exist in the model.
type Precision uint8

const (
	// PrecisionNarrow is 32-bit float samples.
	PrecisionNarrow Precision = iota
	// PrecisionWide is 64-bit float samples.
	PrecisionWide
)

// String returns the precision name.
func (p Precision) String() string {
	if p == PrecisionWide {
		return "wide"
	}
	return "narrow"
}

// Port is a zero-copy view over caller-owned per-channel sample storage.
//
// The view does not own the samples: whoever produced the block owns them,
// and the constant mask is that producer's declaration. This package never
// scans sample data to decide constness.
type Port struct {
	f32      [][]float32
	f64      [][]float64
	constant ConstantMask
	latency  uint32
}

// BindPort32 builds a narrow view over the given channels. constant may be
// nil (all channels varying) or hold one producer-declared flag per channel;
// flags beyond MaskCapacity channels are dropped.
func BindPort32(channels [][]float32, constant []bool) Port {
	return Port{f32: channels, constant: maskFromFlags(constant)}
}

// BindPort64 builds a wide view over the given channels; see BindPort32.
func BindPort64(channels [][]float64, constant []bool) Port {
	return Port{f64: channels, constant: maskFromFlags(constant)}
}

func maskFromFlags(constant []bool) ConstantMask {
	var m ConstantMask
	for i, c := range constant {
		if i >= MaskCapacity {
			break
		}
		if c {
			m |= 1 << uint(i)
		}
	}
	return m
}

// Precision reports whether the port is narrow or wide.
func (p *Port) Precision() Precision {
	if p.f64 != nil {
		return PrecisionWide
	}
	return PrecisionNarrow
}

// ChannelCount returns the number of channels in the view.
func (p *Port) ChannelCount() int {
	if p.f64 != nil {
		return len(p.f64)
	}
	return len(p.f32)
}

// Channel32 returns the narrow samples of one channel, or nil when the port
// is wide or the index is out of range.
func (p *Port) Channel32(i int) []float32 {
	if i < 0 || i >= len(p.f32) {
		return nil
	}
	return p.f32[i]
}

// Channel64 returns the wide samples of one channel, or nil when the port
// is narrow or the index is out of range.
func (p *Port) Channel64(i int) []float64 {
	if i < 0 || i >= len(p.f64) {
		return nil
	}
	return p.f64[i]
}

// Constant returns the producer-declared constant mask.
func (p *Port) Constant() ConstantMask {
	return p.constant
}

// SetConstant replaces the constant mask. Only the block's producer may
// call this: consumers treat the mask as read-only.
func (p *Port) SetConstant(m ConstantMask) {
	p.constant = m
}

// SetChannelConstant marks one channel's constness; see ConstantMask.
func (p *Port) SetChannelConstant(channel uint32, constant bool) {
	p.constant.SetConstant(channel, constant)
}

// Latency returns the port's latency in samples.
func (p *Port) Latency() uint32 {
	return p.latency
}

// SetLatency sets the port's latency in samples.
func (p *Port) SetLatency(samples uint32) {
	p.latency = samples
}

// validate checks that every channel holds exactly frameCount samples.
func (p *Port) validate(frameCount uint32) error {
	n := p.ChannelCount()
	if n == 0 {
		return ErrNoChannels
	}
	channelLen := func(i int) int {
		if p.f64 != nil {
			return len(p.f64[i])
		}
		return len(p.f32[i])
	}
	first := channelLen(0)
	for i := 1; i < n; i++ {
		if channelLen(i) != first {
			return ErrRaggedChannels
		}
	}
	if uint32(first) != frameCount {
		return ErrFrameCountMismatch
	}
	return nil
}
