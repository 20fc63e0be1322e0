package rptlog

import (
	"context"
	"errors"
	"sync"
	"time"
)

const testlogstr = "Test log АБВ こんにちは, 世界`'é\"\\\x5A\254\a\b\t\f\vи други глупости!"
const panicStr = "panic generated in writer"
const errorStr = "error generated in writer"

type PanicWriter struct{}

func (p *PanicWriter) Write(b []byte) (int, error) { panic(panicStr) }

type ErrorWriter struct{}

func (e *ErrorWriter) Write(b []byte) (int, error) { return 0, errors.New(errorStr) }

// FakeWriter collects everything written; safe for use as a fallback written
// from the owner loop goroutine.
type FakeWriter struct {
	mtx    sync.Mutex
	buffer []byte
}

func (f *FakeWriter) Write(b []byte) (int, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.buffer = append(f.buffer, b...)
	return len(b), nil
}

func (f *FakeWriter) String() string {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return string(f.buffer)
}

func (f *FakeWriter) Clear() {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.buffer = f.buffer[:0]
}

// inlineScheduler treats every context as the owner: all actions run inline.
type inlineScheduler struct{}

func (inlineScheduler) IsOwner(ctx context.Context) bool { return true }
func (inlineScheduler) Schedule(action Action) error {
	action(context.Background())
	return nil
}

// manualScheduler is never the owner; scheduled actions wait until drain().
type manualScheduler struct {
	queue []Action
}

func (m *manualScheduler) IsOwner(ctx context.Context) bool { return false }
func (m *manualScheduler) Schedule(action Action) error {
	m.queue = append(m.queue, action)
	return nil
}

func (m *manualScheduler) drain() {
	for len(m.queue) > 0 {
		a := m.queue[0]
		m.queue = m.queue[1:]
		a(context.Background())
	}
}

// refusingScheduler rejects all work.
type refusingScheduler struct{}

func (refusingScheduler) IsOwner(ctx context.Context) bool { return false }
func (refusingScheduler) Schedule(action Action) error    { return errors.New(_ERROR_MESSAGE_LOOP_INACTIVE) }

// recorder is an Observer keeping its own copy of the list, the way a UI list
// model would.
type recorder struct {
	changes []Change
	list    []*LogEntry
}

func (r *recorder) LogChanged(c Change) {
	r.changes = append(r.changes, c)
	switch c.Kind {
	case ChangeAppend:
		r.list = append(r.list[:c.Index], append([]*LogEntry{c.Entry}, r.list[c.Index:]...)...)
	case ChangeRemove:
		r.list = append(r.list[:c.Index], r.list[c.Index+1:]...)
	case ChangeClear:
		r.list = r.list[:0]
	}
}

var testTime = time.Date(2026, time.October, 17, 9, 5, 3, 0, time.UTC)

func fixedClock() time.Time { return testTime }

// newInlineLog creates a log where every operation is applied synchronously.
func newInlineLog(capacity int, fallback OutType) *ReportLog {
	o := DefaultOptions()
	o.Capacity = capacity
	o.Fallback = fallback
	o.Clock = fixedClock
	return InitWithOptions(inlineScheduler{}, o)
}

func messages(entries []*LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message()
	}
	return out
}
