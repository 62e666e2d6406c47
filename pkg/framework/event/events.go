package event

import (
	"encoding/binary"
	"math"
)

// Event is a timestamped record. Concrete record types are defined in this
// package; anything the decoder does not recognize surfaces as a RawEvent so
// unknown types pass through queues untouched instead of failing.
type Event interface {
	Header() Header

	// payloadSize and encodePayload serve the slot arena in Buffer.
	payloadSize() int
	encodePayload(b []byte)
}

// Note identifies one note and carries its velocity. A field set to -1
// means "wildcard": the event applies to all matching notes.
type Note struct {
	NoteID   int32
	Port     int16
	Channel  int16
	Key      int16
	Velocity float64
}

const notePayloadSize = 20

func (n *Note) encode(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], uint32(n.NoteID))
	binary.LittleEndian.PutUint16(b[4:], uint16(n.Port))
	binary.LittleEndian.PutUint16(b[6:], uint16(n.Channel))
	binary.LittleEndian.PutUint16(b[8:], uint16(n.Key))
	putFloat64(b[12:], n.Velocity)
}

func decodeNote(b []byte) Note {
	return Note{
		NoteID:   int32(binary.LittleEndian.Uint32(b[0:])),
		Port:     int16(binary.LittleEndian.Uint16(b[4:])),
		Channel:  int16(binary.LittleEndian.Uint16(b[6:])),
		Key:      int16(binary.LittleEndian.Uint16(b[8:])),
		Velocity: getFloat64(b[12:]),
	}
}

// NoteOnEvent starts a note.
type NoteOnEvent struct {
	Time  uint32
	Flags Flags
	Note
}

// Header implements Event.
func (e NoteOnEvent) Header() Header { return Header{Time: e.Time, Type: TypeNoteOn, Flags: e.Flags} }

func (e NoteOnEvent) payloadSize() int       { return notePayloadSize }
func (e NoteOnEvent) encodePayload(b []byte) { e.Note.encode(b) }

// NoteOffEvent releases a note.
type NoteOffEvent struct {
	Time  uint32
	Flags Flags
	Note
}

// Header implements Event.
func (e NoteOffEvent) Header() Header { return Header{Time: e.Time, Type: TypeNoteOff, Flags: e.Flags} }

func (e NoteOffEvent) payloadSize() int       { return notePayloadSize }
func (e NoteOffEvent) encodePayload(b []byte) { e.Note.encode(b) }

// NoteChokeEvent cuts a note immediately, bypassing its release stage.
type NoteChokeEvent struct {
	Time  uint32
	Flags Flags
	Note
}

// Header implements Event.
func (e NoteChokeEvent) Header() Header {
	return Header{Time: e.Time, Type: TypeNoteChoke, Flags: e.Flags}
}

func (e NoteChokeEvent) payloadSize() int       { return notePayloadSize }
func (e NoteChokeEvent) encodePayload(b []byte) { e.Note.encode(b) }

// NoteEndEvent is sent by the plugin to tell the host a voice ended.
type NoteEndEvent struct {
	Time  uint32
	Flags Flags
	Note
}

// Header implements Event.
func (e NoteEndEvent) Header() Header { return Header{Time: e.Time, Type: TypeNoteEnd, Flags: e.Flags} }

func (e NoteEndEvent) payloadSize() int       { return notePayloadSize }
func (e NoteEndEvent) encodePayload(b []byte) { e.Note.encode(b) }

// Expression identifiers for NoteExpressionEvent.
const (
	ExpressionVolume     int32 = 0
	ExpressionPan        int32 = 1
	ExpressionTuning     int32 = 2
	ExpressionVibrato    int32 = 3
	ExpressionExpression int32 = 4
	ExpressionBrightness int32 = 5
	ExpressionPressure   int32 = 6
)

// NoteExpressionEvent carries a per-note expression value.
type NoteExpressionEvent struct {
	Time         uint32
	Flags        Flags
	ExpressionID int32
	NoteID       int32
	Port         int16
	Channel      int16
	Key          int16
	Value        float64
}

// Header implements Event.
func (e NoteExpressionEvent) Header() Header {
	return Header{Time: e.Time, Type: TypeNoteExpression, Flags: e.Flags}
}

func (e NoteExpressionEvent) payloadSize() int { return 24 }

func (e NoteExpressionEvent) encodePayload(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], uint32(e.ExpressionID))
	binary.LittleEndian.PutUint32(b[4:], uint32(e.NoteID))
	binary.LittleEndian.PutUint16(b[8:], uint16(e.Port))
	binary.LittleEndian.PutUint16(b[10:], uint16(e.Channel))
	binary.LittleEndian.PutUint16(b[12:], uint16(e.Key))
	putFloat64(b[16:], e.Value)
}

// ParamValueEvent sets a parameter value, optionally scoped to one note.
type ParamValueEvent struct {
	Time    uint32
	Flags   Flags
	ParamID uint32
	NoteID  int32
	Port    int16
	Channel int16
	Key     int16
	Value   float64
}

// Header implements Event.
func (e ParamValueEvent) Header() Header {
	return Header{Time: e.Time, Type: TypeParamValue, Flags: e.Flags}
}

func (e ParamValueEvent) payloadSize() int { return 24 }

func (e ParamValueEvent) encodePayload(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], e.ParamID)
	binary.LittleEndian.PutUint32(b[4:], uint32(e.NoteID))
	binary.LittleEndian.PutUint16(b[8:], uint16(e.Port))
	binary.LittleEndian.PutUint16(b[10:], uint16(e.Channel))
	binary.LittleEndian.PutUint16(b[12:], uint16(e.Key))
	putFloat64(b[16:], e.Value)
}

// ParamModEvent sets a parameter modulation amount.
type ParamModEvent struct {
	Time    uint32
	Flags   Flags
	ParamID uint32
	NoteID  int32
	Port    int16
	Channel int16
	Key     int16
	Amount  float64
}

// Header implements Event.
func (e ParamModEvent) Header() Header {
	return Header{Time: e.Time, Type: TypeParamMod, Flags: e.Flags}
}

func (e ParamModEvent) payloadSize() int { return 24 }

func (e ParamModEvent) encodePayload(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], e.ParamID)
	binary.LittleEndian.PutUint32(b[4:], uint32(e.NoteID))
	binary.LittleEndian.PutUint16(b[8:], uint16(e.Port))
	binary.LittleEndian.PutUint16(b[10:], uint16(e.Channel))
	binary.LittleEndian.PutUint16(b[12:], uint16(e.Key))
	putFloat64(b[16:], e.Amount)
}

// ParamGestureBeginEvent marks the start of a user gesture on a parameter.
type ParamGestureBeginEvent struct {
	Time    uint32
	Flags   Flags
	ParamID uint32
}

// Header implements Event.
func (e ParamGestureBeginEvent) Header() Header {
	return Header{Time: e.Time, Type: TypeParamGestureBegin, Flags: e.Flags}
}

func (e ParamGestureBeginEvent) payloadSize() int { return 4 }

func (e ParamGestureBeginEvent) encodePayload(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], e.ParamID)
}

// ParamGestureEndEvent marks the end of a user gesture on a parameter.
type ParamGestureEndEvent struct {
	Time    uint32
	Flags   Flags
	ParamID uint32
}

// Header implements Event.
func (e ParamGestureEndEvent) Header() Header {
	return Header{Time: e.Time, Type: TypeParamGestureEnd, Flags: e.Flags}
}

func (e ParamGestureEndEvent) payloadSize() int { return 4 }

func (e ParamGestureEndEvent) encodePayload(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], e.ParamID)
}

// MIDIEvent carries a short 3-byte MIDI 1.0 message.
type MIDIEvent struct {
	Time  uint32
	Flags Flags
	Port  uint16
	Data  [3]byte
}

// Header implements Event.
func (e MIDIEvent) Header() Header { return Header{Time: e.Time, Type: TypeMIDI, Flags: e.Flags} }

func (e MIDIEvent) payloadSize() int { return 5 }

func (e MIDIEvent) encodePayload(b []byte) {
	binary.LittleEndian.PutUint16(b[0:], e.Port)
	copy(b[2:5], e.Data[:])
}

// SysExEvent carries a variable-length system-exclusive message.
//
// When a SysExEvent is read back from a Buffer, Data aliases the buffer's
// arena and stays valid only until the buffer is cleared or sorted-into
// again. Copy it out to keep it longer.
type SysExEvent struct {
	Time  uint32
	Flags Flags
	Port  uint16
	Data  []byte
}

// Header implements Event.
func (e SysExEvent) Header() Header { return Header{Time: e.Time, Type: TypeMIDISysEx, Flags: e.Flags} }

func (e SysExEvent) payloadSize() int { return 2 + len(e.Data) }

func (e SysExEvent) encodePayload(b []byte) {
	binary.LittleEndian.PutUint16(b[0:], e.Port)
	copy(b[2:], e.Data)
}

// TransportFlags qualify a TransportEvent.
type TransportFlags uint32

const (
	TransportHasTempo           TransportFlags = 1 << 0
	TransportHasBeatsTimeline   TransportFlags = 1 << 1
	TransportHasSecondsTimeline TransportFlags = 1 << 2
	TransportHasTimeSignature   TransportFlags = 1 << 3
	TransportIsPlaying          TransportFlags = 1 << 4
	TransportIsRecording        TransportFlags = 1 << 5
	TransportIsLoopActive       TransportFlags = 1 << 6
	TransportIsWithinPreRoll    TransportFlags = 1 << 7
)

// TransportEvent carries song position, tempo and transport state. The
// TransportFlags say which fields hold meaningful values.
type TransportEvent struct {
	Time  uint32
	Flags Flags

	TransportFlags     TransportFlags
	SongPosBeats       BeatTime
	SongPosSeconds     SecTime
	Tempo              float64
	TempoIncrement     float64
	LoopStartBeats     BeatTime
	LoopEndBeats       BeatTime
	LoopStartSeconds   SecTime
	LoopEndSeconds     SecTime
	BarStart           BeatTime
	BarNumber          int32
	TimeSigNumerator   uint16
	TimeSigDenominator uint16
}

// Header implements Event.
func (e TransportEvent) Header() Header {
	return Header{Time: e.Time, Type: TypeTransport, Flags: e.Flags}
}

func (e TransportEvent) payloadSize() int { return 88 }

func (e TransportEvent) encodePayload(b []byte) {
	binary.LittleEndian.PutUint32(b[0:], uint32(e.TransportFlags))
	binary.LittleEndian.PutUint64(b[8:], uint64(e.SongPosBeats))
	binary.LittleEndian.PutUint64(b[16:], uint64(e.SongPosSeconds))
	putFloat64(b[24:], e.Tempo)
	putFloat64(b[32:], e.TempoIncrement)
	binary.LittleEndian.PutUint64(b[40:], uint64(e.LoopStartBeats))
	binary.LittleEndian.PutUint64(b[48:], uint64(e.LoopEndBeats))
	binary.LittleEndian.PutUint64(b[56:], uint64(e.LoopStartSeconds))
	binary.LittleEndian.PutUint64(b[64:], uint64(e.LoopEndSeconds))
	binary.LittleEndian.PutUint64(b[72:], uint64(e.BarStart))
	binary.LittleEndian.PutUint32(b[80:], uint32(e.BarNumber))
	binary.LittleEndian.PutUint16(b[84:], e.TimeSigNumerator)
	binary.LittleEndian.PutUint16(b[86:], e.TimeSigDenominator)
}

// RawEvent is an event of a type this package does not know. It round-trips
// through queues and buffers untouched.
//
// When read back from a Buffer, Payload aliases the arena; copy it out to
// keep it past the buffer's next Clear.
type RawEvent struct {
	Hdr     Header
	Payload []byte
}

// Header implements Event.
func (e RawEvent) Header() Header { return e.Hdr }

func (e RawEvent) payloadSize() int { return len(e.Payload) }

func (e RawEvent) encodePayload(b []byte) { copy(b, e.Payload) }

// decode reconstructs a typed event from an arena record. payload aliases
// the arena; only SysExEvent and RawEvent retain it.
func decode(h Header, payload []byte) Event {
	switch h.Type {
	case TypeNoteOn:
		return NoteOnEvent{Time: h.Time, Flags: h.Flags, Note: decodeNote(payload)}
	case TypeNoteOff:
		return NoteOffEvent{Time: h.Time, Flags: h.Flags, Note: decodeNote(payload)}
	case TypeNoteChoke:
		return NoteChokeEvent{Time: h.Time, Flags: h.Flags, Note: decodeNote(payload)}
	case TypeNoteEnd:
		return NoteEndEvent{Time: h.Time, Flags: h.Flags, Note: decodeNote(payload)}
	case TypeNoteExpression:
		return NoteExpressionEvent{
			Time:         h.Time,
			Flags:        h.Flags,
			ExpressionID: int32(binary.LittleEndian.Uint32(payload[0:])),
			NoteID:       int32(binary.LittleEndian.Uint32(payload[4:])),
			Port:         int16(binary.LittleEndian.Uint16(payload[8:])),
			Channel:      int16(binary.LittleEndian.Uint16(payload[10:])),
			Key:          int16(binary.LittleEndian.Uint16(payload[12:])),
			Value:        getFloat64(payload[16:]),
		}
	case TypeParamValue:
		return ParamValueEvent{
			Time:    h.Time,
			Flags:   h.Flags,
			ParamID: binary.LittleEndian.Uint32(payload[0:]),
			NoteID:  int32(binary.LittleEndian.Uint32(payload[4:])),
			Port:    int16(binary.LittleEndian.Uint16(payload[8:])),
			Channel: int16(binary.LittleEndian.Uint16(payload[10:])),
			Key:     int16(binary.LittleEndian.Uint16(payload[12:])),
			Value:   getFloat64(payload[16:]),
		}
	case TypeParamMod:
		return ParamModEvent{
			Time:    h.Time,
			Flags:   h.Flags,
			ParamID: binary.LittleEndian.Uint32(payload[0:]),
			NoteID:  int32(binary.LittleEndian.Uint32(payload[4:])),
			Port:    int16(binary.LittleEndian.Uint16(payload[8:])),
			Channel: int16(binary.LittleEndian.Uint16(payload[10:])),
			Key:     int16(binary.LittleEndian.Uint16(payload[12:])),
			Amount:  getFloat64(payload[16:]),
		}
	case TypeParamGestureBegin:
		return ParamGestureBeginEvent{
			Time:    h.Time,
			Flags:   h.Flags,
			ParamID: binary.LittleEndian.Uint32(payload[0:]),
		}
	case TypeParamGestureEnd:
		return ParamGestureEndEvent{
			Time:    h.Time,
			Flags:   h.Flags,
			ParamID: binary.LittleEndian.Uint32(payload[0:]),
		}
	case TypeMIDI:
		e := MIDIEvent{Time: h.Time, Flags: h.Flags, Port: binary.LittleEndian.Uint16(payload[0:])}
		copy(e.Data[:], payload[2:5])
		return e
	case TypeMIDISysEx:
		return SysExEvent{
			Time:  h.Time,
			Flags: h.Flags,
			Port:  binary.LittleEndian.Uint16(payload[0:]),
			Data:  payload[2:],
		}
	case TypeTransport:
		return TransportEvent{
			Time:               h.Time,
			Flags:              h.Flags,
			TransportFlags:     TransportFlags(binary.LittleEndian.Uint32(payload[0:])),
			SongPosBeats:       BeatTime(binary.LittleEndian.Uint64(payload[8:])),
			SongPosSeconds:     SecTime(binary.LittleEndian.Uint64(payload[16:])),
			Tempo:              getFloat64(payload[24:]),
			TempoIncrement:     getFloat64(payload[32:]),
			LoopStartBeats:     BeatTime(binary.LittleEndian.Uint64(payload[40:])),
			LoopEndBeats:       BeatTime(binary.LittleEndian.Uint64(payload[48:])),
			LoopStartSeconds:   SecTime(binary.LittleEndian.Uint64(payload[56:])),
			LoopEndSeconds:     SecTime(binary.LittleEndian.Uint64(payload[64:])),
			BarStart:           BeatTime(binary.LittleEndian.Uint64(payload[72:])),
			BarNumber:          int32(binary.LittleEndian.Uint32(payload[80:])),
			TimeSigNumerator:   binary.LittleEndian.Uint16(payload[84:]),
			TimeSigDenominator: binary.LittleEndian.Uint16(payload[86:]),
		}
	default:
		return RawEvent{Hdr: h, Payload: payload}
	}
}

func putFloat64(b []byte, f float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(f))
}

func getFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
