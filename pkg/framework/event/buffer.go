package event

import "sort"

// SlotSize is the allocation unit of a Buffer's arena. One slot holds the
// encoded header plus the largest fixed-size payload; transport and sysex
// records spill into following slots.
const SlotSize = 32

// transportSlots is the slot footprint of the largest standard record,
// used when pre-sizing a buffer.
const transportSlots = 3

type slotRef struct {
	slot uint32 // arena offset in slots
	size uint32 // payload size in bytes
}

// Buffer is append-only storage for heterogeneous event records.
//
// Records are encoded into an arena sized in SlotSize header slots; a side
// index table maps logical position to slot offset, so Get is O(1) even for
// variable-length records. Clear resets the write cursors but keeps the
// allocated capacity, so steady-state per-block reuse does not touch the
// heap.
//
// Buffer implements both Source and Sink: it backs an InputQueue on the way
// into a render call and an OutputQueue on the way out.
type Buffer struct {
	arena []byte
	index []slotRef
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferWithCapacity creates an empty buffer pre-sized for the given
// number of records. Records have no upper size bound, so the reservation
// is best-effort: it assumes each record is at most as large as a transport
// record, the largest standard type.
func NewBufferWithCapacity(events int) *Buffer {
	return &Buffer{
		arena: make([]byte, 0, events*transportSlots*SlotSize),
		index: make([]slotRef, 0, events),
	}
}

// Len returns the number of records in the buffer.
func (b *Buffer) Len() uint32 {
	return uint32(len(b.index))
}

// IsEmpty reports whether the buffer holds no records.
func (b *Buffer) IsEmpty() bool {
	return len(b.index) == 0
}

// Clear removes all records. The allocated capacity is retained.
func (b *Buffer) Clear() {
	b.arena = b.arena[:0]
	b.index = b.index[:0]
}

// Push appends a record to the end of the buffer.
func (b *Buffer) Push(e Event) {
	size := e.payloadSize()
	slot := uint32(len(b.arena) / SlotSize)

	chunk := b.allocate(headerSize + size)
	h := e.Header()
	putHeader(chunk, h)
	e.encodePayload(chunk[headerSize : headerSize+size])

	b.index = append(b.index, slotRef{slot: slot, size: uint32(size)})
}

// PushAll appends records in order.
func (b *Buffer) PushAll(events ...Event) {
	for _, e := range events {
		b.Push(e)
	}
}

// TryPush implements Sink. Pushing into a plain Buffer never fails; wrap it
// in a Bounded sink to impose a limit.
func (b *Buffer) TryPush(e Event) error {
	b.Push(e)
	return nil
}

// Get returns the record at the given logical position.
//
// The lookup is O(1) via the index table. Variable-length records are
// returned as views into the arena; see SysExEvent and RawEvent.
func (b *Buffer) Get(i uint32) (Event, bool) {
	if i >= uint32(len(b.index)) {
		return nil, false
	}
	ref := b.index[i]
	off := ref.slot * SlotSize
	h := getHeader(b.arena[off:])
	payload := b.arena[off+headerSize : off+headerSize+ref.size]
	return decode(h, payload), true
}

// Sort orders the records by time. The sort is stable: records sharing a
// timestamp keep their insertion order, so same-time events are never
// silently reordered.
func (b *Buffer) Sort() {
	sort.SliceStable(b.index, func(i, j int) bool {
		return b.timeAt(b.index[i]) < b.timeAt(b.index[j])
	})
}

// AsInput wraps the buffer in a read-only ordered view.
func (b *Buffer) AsInput() *InputQueue {
	return NewInputQueue(b)
}

// AsOutput wraps the buffer in an append-only sink.
func (b *Buffer) AsOutput() *OutputQueue {
	return NewOutputQueue(b)
}

func (b *Buffer) timeAt(ref slotRef) uint32 {
	return getHeader(b.arena[ref.slot*SlotSize:]).Time
}

// allocate extends the arena by whole slots and returns the new region.
// It only touches the heap when the retained capacity is exceeded.
func (b *Buffer) allocate(byteSize int) []byte {
	total := (byteSize + SlotSize - 1) / SlotSize * SlotSize
	start := len(b.arena)
	if cap(b.arena) >= start+total {
		b.arena = b.arena[: start+total : cap(b.arena)]
	} else {
		b.arena = append(b.arena, make([]byte, total)...)
	}
	return b.arena[start : start+total]
}
