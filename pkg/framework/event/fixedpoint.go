package event

import "math"

// Transport positions use 64-bit fixed-point values with a 31-bit fractional
// part, matching the external boundary's representation exactly so no
// precision is lost crossing it.
const timeFactor = 1 << 31

// BeatTime is a musical position in beats, fixed point.
type BeatTime int64

// BeatsFromFloat converts a beat count to fixed point, rounding to nearest.
func BeatsFromFloat(beats float64) BeatTime {
	return BeatTime(math.Round(beats * timeFactor))
}

// Float64 converts the position back to beats.
func (t BeatTime) Float64() float64 {
	return float64(t) / timeFactor
}

// SecTime is a wall-clock position in seconds, fixed point.
type SecTime int64

// SecondsFromFloat converts seconds to fixed point, rounding to nearest.
func SecondsFromFloat(seconds float64) SecTime {
	return SecTime(math.Round(seconds * timeFactor))
}

// Float64 converts the position back to seconds.
func (t SecTime) Float64() float64 {
	return float64(t) / timeFactor
}
