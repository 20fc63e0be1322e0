package rptlog

const _UNBOUNDED_INITIAL_SIZE = 64 // initial ring size when eviction is disabled

// eventBuffer is the ordered, capacity-bounded entry sequence. It is a ring over
// a slice of entry pointers: append at the back, evict at the front, remove by
// identity anywhere. With capacity <= 0 eviction is disabled and the ring grows.
//
// Not safe for concurrent use; the report log touches it on the owner only.
type eventBuffer struct {
	items    []*LogEntry
	start    int
	size     int
	capacity int
}

func newEventBuffer(capacity int) *eventBuffer {
	n := capacity
	if n <= 0 {
		n = _UNBOUNDED_INITIAL_SIZE
	}
	return &eventBuffer{items: make([]*LogEntry, n), capacity: capacity}
}

func (b *eventBuffer) Len() int { return b.size }

// True if the next append would have to evict the oldest entry.
func (b *eventBuffer) full() bool {
	return b.capacity > 0 && b.size >= b.capacity
}

// ring position of the logical index i
func (b *eventBuffer) pos(i int) int {
	return (b.start + i) % len(b.items)
}

// Returns the entry at logical index i (0 is the oldest) or nil.
func (b *eventBuffer) at(i int) *LogEntry {
	if i < 0 || i >= b.size {
		return nil
	}
	return b.items[b.pos(i)]
}

// Removes and returns the oldest entry (nil if the buffer is empty).
func (b *eventBuffer) evictOldest() *LogEntry {
	if b.size == 0 {
		return nil
	}
	e := b.items[b.start]
	b.items[b.start] = nil
	b.start = (b.start + 1) % len(b.items)
	b.size--
	return e
}

// Appends an entry at the back, evicting the oldest one first if the buffer is
// at capacity. Returns the evicted entry (or nil) and the index of the new one.
func (b *eventBuffer) append(e *LogEntry) (evicted *LogEntry, index int) {
	if b.full() {
		evicted = b.evictOldest()
	}
	if b.size == len(b.items) {
		b.grow()
	}
	b.items[b.pos(b.size)] = e
	b.size++
	return evicted, b.size - 1
}

// Doubles the ring, keeping the logical order (used only without capacity).
func (b *eventBuffer) grow() {
	items := make([]*LogEntry, 2*len(b.items)+1)
	for i := range b.size {
		items[i] = b.items[b.pos(i)]
	}
	b.items = items
	b.start = 0
}

// Logical index of the entry (identity lookup), -1 if absent.
func (b *eventBuffer) indexOf(e *LogEntry) int {
	if e == nil {
		return -1
	}
	for i := range b.size {
		if b.items[b.pos(i)] == e {
			return i
		}
	}
	return -1
}

// Removes the entry by identity keeping the order of the rest. Returns the
// index it had and true, or -1 and false if the entry is not in the buffer.
func (b *eventBuffer) removeEntry(e *LogEntry) (int, bool) {
	idx := b.indexOf(e)
	if idx < 0 {
		return -1, false
	}
	for i := idx; i < b.size-1; i++ {
		b.items[b.pos(i)] = b.items[b.pos(i+1)]
	}
	b.items[b.pos(b.size-1)] = nil
	b.size--
	return idx, true
}

func (b *eventBuffer) clear() {
	clear(b.items)
	b.start = 0
	b.size = 0
}

// Ordered copy of the entries, oldest first.
func (b *eventBuffer) entries() []*LogEntry {
	out := make([]*LogEntry, b.size)
	for i := range b.size {
		out[i] = b.items[b.pos(i)]
	}
	return out
}
