package event

import "errors"

// ErrQueueFull reports that a bounded output sink has no room left.
var ErrQueueFull = errors.New("event: output queue is full")

// ErrOutOfOrder reports a push whose timestamp is smaller than the last
// accepted one. Output queues reject such pushes so the non-decreasing
// invariant can never be broken from the producing side.
var ErrOutOfOrder = errors.New("event: push would break timestamp order")

// Source is random-access, read-only storage of ordered records. Buffer
// implements it, and Slice adapts externally owned ordered slices.
type Source interface {
	Len() uint32
	Get(i uint32) (Event, bool)
}

// Sink is append-only storage for records produced during a render call.
type Sink interface {
	TryPush(e Event) error
}

// Slice adapts an ordered []Event to the Source interface. The caller owns
// the backing slice and guarantees it is ordered by time.
type Slice []Event

// Len implements Source.
func (s Slice) Len() uint32 { return uint32(len(s)) }

// Get implements Source.
func (s Slice) Get(i uint32) (Event, bool) {
	if i >= uint32(len(s)) {
		return nil, false
	}
	return s[i], true
}

// InputQueue is the read-only, ordered event view handed to a render call.
// It never mutates its source.
type InputQueue struct {
	src Source
}

// NewInputQueue wraps a source. A nil source yields an empty queue.
func NewInputQueue(src Source) *InputQueue {
	return &InputQueue{src: src}
}

// Len returns the number of records in the queue.
func (q *InputQueue) Len() uint32 {
	if q == nil || q.src == nil {
		return 0
	}
	return q.src.Len()
}

// Get returns the record at the given position in O(1).
func (q *InputQueue) Get(i uint32) (Event, bool) {
	if q == nil || q.src == nil {
		return nil, false
	}
	return q.src.Get(i)
}

// Iter returns an iterator positioned before the first record.
func (q *InputQueue) Iter() *Iter {
	return &Iter{q: q}
}

// Iter walks an InputQueue front to back.
type Iter struct {
	q   *InputQueue
	pos uint32
}

// Next returns the next record, or false when the queue is exhausted.
func (it *Iter) Next() (Event, bool) {
	e, ok := it.q.Get(it.pos)
	if !ok {
		return nil, false
	}
	it.pos++
	return e, true
}

// OutputQueue is the append-only event sink handed to a render call. It is
// populated only during the call; records can never be mutated or removed
// through it, and pushes that would regress the timestamp are rejected.
type OutputQueue struct {
	sink     Sink
	lastTime uint32
	pushed   bool
}

// NewOutputQueue wraps a sink. A nil sink discards every push.
func NewOutputQueue(sink Sink) *OutputQueue {
	return &OutputQueue{sink: sink}
}

// Reset clears the order cursor so the queue can serve the next render
// call. The sink is not touched; clear it separately.
func (q *OutputQueue) Reset() {
	q.lastTime = 0
	q.pushed = false
}

// TryPush appends a record.
//
// It fails with ErrOutOfOrder if the record's time is smaller than the last
// accepted record's time, and with the sink's error (ErrQueueFull for a
// Bounded sink) if the sink cannot take it.
func (q *OutputQueue) TryPush(e Event) error {
	if q == nil || q.sink == nil {
		return nil
	}
	t := e.Header().Time
	if q.pushed && t < q.lastTime {
		return ErrOutOfOrder
	}
	if err := q.sink.TryPush(e); err != nil {
		return err
	}
	q.lastTime = t
	q.pushed = true
	return nil
}

// Bounded caps the number of records a Buffer-backed sink will accept.
// Hosts use it to hand plugins a fixed-size output queue whose arena was
// pre-allocated outside the render path.
type Bounded struct {
	Buf *Buffer
	Max uint32
}

// TryPush implements Sink, failing with ErrQueueFull at the cap.
func (s Bounded) TryPush(e Event) error {
	if s.Buf.Len() >= s.Max {
		return ErrQueueFull
	}
	s.Buf.Push(e)
	return nil
}
