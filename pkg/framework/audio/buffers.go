package audio

// Buffers is the set of port views participating in one render call. Every
// port in the set shares the call's frame count; BindBuffers enforces that
// up front so the render path can rely on it without re-checking.
type Buffers struct {
	ports      []Port
	frameCount uint32
}

// BindBuffers validates the given ports against the frame count and bundles
// them. The port storage stays caller-owned; this is a view, not a copy.
func BindBuffers(frameCount uint32, ports ...Port) (*Buffers, error) {
	for i := range ports {
		if err := ports[i].validate(frameCount); err != nil {
			return nil, err
		}
	}
	return &Buffers{ports: ports, frameCount: frameCount}, nil
}

// FrameCount returns the shared frame count of the set.
func (b *Buffers) FrameCount() uint32 {
	return b.frameCount
}

// PortCount returns the number of ports in the set.
func (b *Buffers) PortCount() int {
	return len(b.ports)
}

// Port returns the port at the given index, or nil when out of range.
func (b *Buffers) Port(i int) *Port {
	if i < 0 || i >= len(b.ports) {
		return nil
	}
	return &b.ports[i]
}

// CheckPairs verifies that input and output ports paired by logical index
// agree on sample precision. Mixing a narrow input with a wide output (or
// the reverse) on the same port index is a caller error, never a silent
// coercion.
func CheckPairs(in, out *Buffers) error {
	if in == nil || out == nil {
		return nil
	}
	n := in.PortCount()
	if out.PortCount() < n {
		n = out.PortCount()
	}
	for i := 0; i < n; i++ {
		if in.ports[i].Precision() != out.ports[i].Precision() {
			return ErrPrecisionMismatch
		}
	}
	return nil
}
