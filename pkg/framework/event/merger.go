package event

// Stream is a forward-only producer of ordered records. Iter implements it;
// so does Merger itself, which makes mergers composable.
type Stream interface {
	Next() (Event, bool)
}

// Merger merges two already-ordered event streams into one ordered stream.
//
// Next repeatedly compares the unread head of each side and emits the one
// with the smaller timestamp. Ties are broken by fixed stream priority: on
// equal timestamps the first stream wins. Callers that care about tie order,
// such as automation versus live input, pass the stream that must come
// first as a.
type Merger struct {
	a, b    Stream
	ea, eb  Event
	okA     bool
	okB     bool
	started bool
}

// NewMerger creates a merger over two ordered streams.
func NewMerger(a, b Stream) *Merger {
	return &Merger{a: a, b: b}
}

// Next returns the next record in merged order, or false when both streams
// are exhausted.
func (m *Merger) Next() (Event, bool) {
	if !m.started {
		m.ea, m.okA = m.a.Next()
		m.eb, m.okB = m.b.Next()
		m.started = true
	}

	switch {
	case m.okA && m.okB:
		if m.ea.Header().Time <= m.eb.Header().Time {
			return m.advanceA()
		}
		return m.advanceB()
	case m.okA:
		return m.advanceA()
	case m.okB:
		return m.advanceB()
	default:
		return nil, false
	}
}

func (m *Merger) advanceA() (Event, bool) {
	e := m.ea
	m.ea, m.okA = m.a.Next()
	return e, true
}

func (m *Merger) advanceB() (Event, bool) {
	e := m.eb
	m.eb, m.okB = m.b.Next()
	return e, true
}

// MergeInto drains a merger of the two given streams into a sink.
func MergeInto(sink Sink, a, b Stream) error {
	m := NewMerger(a, b)
	for {
		e, ok := m.Next()
		if !ok {
			return nil
		}
		if err := sink.TryPush(e); err != nil {
			return err
		}
	}
}
