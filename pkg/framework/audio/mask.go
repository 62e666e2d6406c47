// Package audio implements zero-copy buffer views over caller-owned channel
// storage, with the per-channel constant-value optimization.
package audio

import "math/bits"

// MaskCapacity is the number of channels a ConstantMask can describe.
const MaskCapacity = 64

// ConstantMask is a hint marking which channels of a port hold one repeated
// value for the whole block. A constant channel is not necessarily silent:
// the repeated value may be non-zero.
//
// The mask is 64 bits wide. Ports with more channels still work, but the
// extra channels always read as non-constant: the optimization is lost, not
// the data.
type ConstantMask uint64

const (
	// FullyDynamic marks every channel as varying.
	FullyDynamic ConstantMask = 0
	// FullyConstant marks every channel as constant.
	FullyConstant ConstantMask = ^ConstantMask(0)
)

// MaskFromBits builds a mask from its raw bit representation.
func MaskFromBits(bits uint64) ConstantMask {
	return ConstantMask(bits)
}

// Bits returns the raw bit representation.
func (m ConstantMask) Bits() uint64 {
	return uint64(m)
}

// IsConstant reports whether the channel at the given index is constant.
// Indexes at or beyond MaskCapacity always report false.
func (m ConstantMask) IsConstant(channel uint32) bool {
	if channel >= MaskCapacity {
		return false
	}
	return m&(1<<channel) != 0
}

// SetConstant marks or unmarks the channel at the given index. Indexes at
// or beyond MaskCapacity are dropped.
func (m *ConstantMask) SetConstant(channel uint32, constant bool) {
	if channel >= MaskCapacity {
		return
	}
	if constant {
		*m |= 1 << channel
	} else {
		*m &^= 1 << channel
	}
}

// ConstantCount returns how many channels are marked constant.
func (m ConstantMask) ConstantCount() int {
	return bits.OnesCount64(uint64(m))
}
