// Package event implements sample-accurate, ordered event records and the
// queue and merge primitives that move them across the plugin boundary.
//
// Every record carries a fixed header: a sample offset within the current
// block, a type tag and a flag word. Within any single queue the sequence of
// sample offsets observed by iteration is non-decreasing; producers are
// responsible for establishing that order (Buffer.Sort helps on the host
// side) and OutputQueue rejects pushes that would break it.
package event

import "encoding/binary"

// Type tags an event record. The numeric values are part of the fixed
// external boundary and must not be reordered.
type Type uint16

const (
	// TypeNoteOn starts a note.
	TypeNoteOn Type = 0
	// TypeNoteOff releases a note.
	TypeNoteOff Type = 1
	// TypeNoteChoke cuts a note immediately, bypassing its release.
	TypeNoteChoke Type = 2
	// TypeNoteEnd is emitted by the plugin when a voice actually ended.
	TypeNoteEnd Type = 3
	// TypeNoteExpression carries a per-note expression value.
	TypeNoteExpression Type = 4
	// TypeParamValue sets a parameter value.
	TypeParamValue Type = 5
	// TypeParamMod sets a parameter modulation amount.
	TypeParamMod Type = 6
	// TypeParamGestureBegin marks the start of a parameter gesture.
	TypeParamGestureBegin Type = 7
	// TypeParamGestureEnd marks the end of a parameter gesture.
	TypeParamGestureEnd Type = 8
	// TypeTransport carries song position, tempo and transport flags.
	TypeTransport Type = 9
	// TypeMIDI carries a short 3-byte MIDI 1.0 message.
	TypeMIDI Type = 10
	// TypeMIDISysEx carries a variable-length system-exclusive message.
	TypeMIDISysEx Type = 11
)

// String returns the type tag name.
func (t Type) String() string {
	switch t {
	case TypeNoteOn:
		return "note-on"
	case TypeNoteOff:
		return "note-off"
	case TypeNoteChoke:
		return "note-choke"
	case TypeNoteEnd:
		return "note-end"
	case TypeNoteExpression:
		return "note-expression"
	case TypeParamValue:
		return "param-value"
	case TypeParamMod:
		return "param-mod"
	case TypeParamGestureBegin:
		return "param-gesture-begin"
	case TypeParamGestureEnd:
		return "param-gesture-end"
	case TypeTransport:
		return "transport"
	case TypeMIDI:
		return "midi"
	case TypeMIDISysEx:
		return "midi-sysex"
	default:
		return "unknown"
	}
}

// Flags qualify an event record.
type Flags uint16

const (
	// FlagIsLive marks an event that comes from a live input, as opposed
	// to a pre-recorded stream.
	FlagIsLive Flags = 1 << 0
	// FlagDontRecord asks the host not to record this event.
	FlagDontRecord Flags = 1 << 1
)

// Header is the fixed-size prefix shared by every event record.
type Header struct {
	// Time is the sample offset within the current block.
	Time  uint32
	Type  Type
	Flags Flags
}

// headerSize is the encoded size of a Header in the slot arena.
const headerSize = 8

func putHeader(b []byte, h Header) {
	binary.LittleEndian.PutUint32(b[0:], h.Time)
	binary.LittleEndian.PutUint16(b[4:], uint16(h.Type))
	binary.LittleEndian.PutUint16(b[6:], uint16(h.Flags))
}

func getHeader(b []byte) Header {
	return Header{
		Time:  binary.LittleEndian.Uint32(b[0:]),
		Type:  Type(binary.LittleEndian.Uint16(b[4:])),
		Flags: Flags(binary.LittleEndian.Uint16(b[6:])),
	}
}
