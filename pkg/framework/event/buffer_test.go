package event

import (
	"bytes"
	"testing"
)

func TestBufferPushAndGet(t *testing.T) {
	b := NewBuffer()
	if !b.IsEmpty() {
		t.Fatal("new buffer should be empty")
	}

	b.Push(ParamValueEvent{Time: 5, ParamID: 1, NoteID: -1, Port: -1, Channel: -1, Key: -1, Value: 0.5})
	b.Push(NoteOnEvent{Time: 10, Note: Note{NoteID: 7, Key: 60, Velocity: 0.9}})

	if b.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", b.Len())
	}

	e, ok := b.Get(0)
	if !ok {
		t.Fatal("expected record at 0")
	}
	pv, ok := e.(ParamValueEvent)
	if !ok {
		t.Fatalf("expected ParamValueEvent, got %T", e)
	}
	if pv.Time != 5 || pv.ParamID != 1 || pv.Value != 0.5 || pv.NoteID != -1 {
		t.Errorf("param event round-trip mismatch: %+v", pv)
	}

	e, ok = b.Get(1)
	if !ok {
		t.Fatal("expected record at 1")
	}
	on, ok := e.(NoteOnEvent)
	if !ok {
		t.Fatalf("expected NoteOnEvent, got %T", e)
	}
	if on.Time != 10 || on.Key != 60 || on.Velocity != 0.9 {
		t.Errorf("note event round-trip mismatch: %+v", on)
	}

	if _, ok := b.Get(2); ok {
		t.Error("expected out-of-range Get to report false")
	}
}

func TestBufferVariableLengthRecords(t *testing.T) {
	b := NewBuffer()

	sysex := make([]byte, 100) // spills over several slots
	for i := range sysex {
		sysex[i] = byte(i)
	}
	b.Push(SysExEvent{Time: 1, Port: 2, Data: sysex})
	b.Push(MIDIEvent{Time: 3, Port: 1, Data: [3]byte{0x90, 60, 100}})

	e, ok := b.Get(0)
	if !ok {
		t.Fatal("expected sysex record")
	}
	sx := e.(SysExEvent)
	if sx.Port != 2 || !bytes.Equal(sx.Data, sysex) {
		t.Error("sysex payload did not round-trip")
	}

	// The record after a multi-slot payload must still be O(1) reachable.
	e, ok = b.Get(1)
	if !ok {
		t.Fatal("expected midi record after multi-slot record")
	}
	mid := e.(MIDIEvent)
	if mid.Data != [3]byte{0x90, 60, 100} {
		t.Errorf("midi payload mismatch: %v", mid.Data)
	}
}

func TestBufferClearRetainsCapacity(t *testing.T) {
	b := NewBufferWithCapacity(16)

	for block := 0; block < 8; block++ {
		arenaCap := cap(b.arena)
		indexCap := cap(b.index)

		for i := 0; i < 16; i++ {
			b.Push(ParamValueEvent{Time: uint32(i), ParamID: uint32(i)})
		}
		if b.Len() != 16 {
			t.Fatalf("block %d: expected 16 records, got %d", block, b.Len())
		}

		if block > 0 && (cap(b.arena) != arenaCap || cap(b.index) != indexCap) {
			t.Fatalf("block %d: steady-state reuse reallocated the arena", block)
		}
		b.Clear()
		if !b.IsEmpty() {
			t.Fatal("clear should empty the buffer")
		}
	}
}

func TestBufferSortIsStable(t *testing.T) {
	b := NewBuffer()
	b.Push(ParamValueEvent{Time: 20, ParamID: 1})
	b.Push(NoteOnEvent{Time: 5, Note: Note{Key: 60}})
	b.Push(ParamValueEvent{Time: 5, ParamID: 2}) // same time as the note-on
	b.Push(NoteOffEvent{Time: 1, Note: Note{Key: 60}})

	b.Sort()

	times := make([]uint32, 0, b.Len())
	for i := uint32(0); i < b.Len(); i++ {
		e, _ := b.Get(i)
		times = append(times, e.Header().Time)
	}
	for i := 1; i < len(times); i++ {
		if times[i] < times[i-1] {
			t.Fatalf("sorted buffer not non-decreasing: %v", times)
		}
	}

	// Insertion order must survive among equal timestamps.
	e1, _ := b.Get(1)
	e2, _ := b.Get(2)
	if _, ok := e1.(NoteOnEvent); !ok {
		t.Errorf("expected note-on first among t=5 records, got %T", e1)
	}
	if _, ok := e2.(ParamValueEvent); !ok {
		t.Errorf("expected param-value second among t=5 records, got %T", e2)
	}
}

func TestBufferTransportRoundTrip(t *testing.T) {
	want := TransportEvent{
		Time:               0,
		TransportFlags:     TransportHasTempo | TransportIsPlaying | TransportHasBeatsTimeline,
		SongPosBeats:       BeatsFromFloat(16.5),
		SongPosSeconds:     SecondsFromFloat(22.4),
		Tempo:              120.0,
		TempoIncrement:     0.001,
		LoopStartBeats:     BeatsFromFloat(8),
		LoopEndBeats:       BeatsFromFloat(16),
		BarStart:           BeatsFromFloat(16),
		BarNumber:          4,
		TimeSigNumerator:   4,
		TimeSigDenominator: 4,
	}

	b := NewBuffer()
	b.Push(want)

	e, ok := b.Get(0)
	if !ok {
		t.Fatal("expected transport record")
	}
	got := e.(TransportEvent)
	if got != want {
		t.Errorf("transport round-trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestBufferUnknownTypePassesThrough(t *testing.T) {
	b := NewBuffer()
	raw := RawEvent{
		Hdr:     Header{Time: 9, Type: Type(400), Flags: FlagIsLive},
		Payload: []byte{1, 2, 3, 4, 5},
	}
	b.Push(raw)

	e, ok := b.Get(0)
	if !ok {
		t.Fatal("expected raw record")
	}
	got := e.(RawEvent)
	if got.Hdr != raw.Hdr || !bytes.Equal(got.Payload, raw.Payload) {
		t.Errorf("raw event did not pass through: %+v", got)
	}
}

func TestFixedPointRoundTrip(t *testing.T) {
	for _, beats := range []float64{0, 1, 0.5, 123.25, -4.75} {
		got := BeatsFromFloat(beats).Float64()
		if got != beats {
			t.Errorf("BeatTime round-trip: got %v, want %v", got, beats)
		}
	}
}
