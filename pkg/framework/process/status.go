package process

// Status is the result of one render call. The numeric values are part of
// the fixed external boundary and must not be reordered.
type Status int32

const (
	// StatusError reports that the block failed; its output is undefined.
	StatusError Status = 0
	// StatusContinue asks to keep processing.
	StatusContinue Status = 1
	// StatusContinueIfNotQuiet asks to keep processing while the input is
	// not silent.
	StatusContinueIfNotQuiet Status = 2
	// StatusTail asks to keep processing until the plugin's reported tail
	// has elapsed.
	StatusTail Status = 3
	// StatusSleep reports that the plugin has no more audio to produce
	// until new input or events arrive.
	StatusSleep Status = 4
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusContinue:
		return "continue"
	case StatusContinueIfNotQuiet:
		return "continue-if-not-quiet"
	case StatusTail:
		return "tail"
	case StatusSleep:
		return "sleep"
	default:
		return "unknown"
	}
}

// StatusFromRaw converts a raw boundary value, reporting false for values
// outside the defined range.
func StatusFromRaw(raw int32) (Status, bool) {
	if raw < int32(StatusError) || raw > int32(StatusSleep) {
		return StatusError, false
	}
	return Status(raw), true
}
