// Package rptlog implements a bounded, order-preserving report log for
// operational messages (errors, warnings, info, debug and transient status).
//
// Producers may emit from any goroutine. Every mutation of the log is funneled
// through a Scheduler onto one owner context, so the entry sequence, the status
// coalescing reference and the observers need no locks. Transient Status
// messages replace each other instead of piling up, and Warning/Error counters
// survive eviction of the entries they counted.
//
// Preferred usage example:
//
//	func main() {
//	    rlog := rptlog.InitAndStart(rptlog.DefaultOptions())
//	    defer rlog.StopAndWait()
//	    rlog.Info("decoder", "session opened")
//	    ...
//	}
package rptlog

import (
	"context"
	"errors"
	"io"
	"os"
	"time"
)

// DefaultOptions returns the settings used by Init: capacity DEFAULT_CAPACITY,
// os.Stderr as fallback, time.Now as clock, no sinks and no inspector.
func DefaultOptions() Options {
	return Options{
		Capacity: DEFAULT_CAPACITY,
		Fallback: os.Stderr,
		Clock:    time.Now,
	}
}

// Short form of InitWithOptions with DefaultOptions(). The scheduler may be nil
// and attached later with SetScheduler; until then emissions are dropped.
func Init(s Scheduler) *ReportLog {
	return InitWithOptions(s, DefaultOptions())
}

// InitWithOptions constructs a report log bound to the given owner scheduler.
func InitWithOptions(s Scheduler, o Options) *ReportLog {
	rl := new(ReportLog)
	rl.buffer = newEventBuffer(o.Capacity)
	rl.clock = o.Clock
	if rl.clock == nil {
		rl.clock = time.Now
	}
	rl.SetFallback(o.Fallback)
	rl.SetSinks(o.Sinks)
	rl.SetInspector(o.Inspector)
	rl.SetScheduler(s)
	return rl
}

// Creates a report log together with its own OwnerLoop and starts the loop.
// StopAndWait() must be called to drain the loop before program exit.
func InitAndStart(o Options) *ReportLog {
	loop := NewOwnerLoop(o.Fallback)
	rl := InitWithOptions(loop, o)
	rl.loop = loop
	if err := loop.Start(); err != nil {
		rl.handleFallback("error starting owner loop: " + err.Error())
	}
	return rl
}

// Stops the owned OwnerLoop (InitAndStart) and waits until every queued
// emission is applied. No-op for logs attached to an external scheduler.
func (rl *ReportLog) StopAndWait() {
	if rl.loop != nil {
		rl.loop.StopAndWait()
	}
}

// Attaches the owner scheduler. A nil scheduler detaches the log, after which
// emissions are silently dropped again.
func (rl *ReportLog) SetScheduler(s Scheduler) *ReportLog {
	rl.sync.confMtx.Lock()
	defer rl.sync.confMtx.Unlock()
	rl.sched = s
	return rl
}

// Returns the attached owner scheduler (may be nil).
func (rl *ReportLog) Scheduler() Scheduler {
	rl.sync.confMtx.RLock()
	defer rl.sync.confMtx.RUnlock()
	return rl.sched
}

// Sets the fallback output used to report internal errors, io.Discard is used
// instead of nil to silently drop fallback messages.
func (rl *ReportLog) SetFallback(f OutType) *ReportLog {
	rl.sync.fbckMtx.Lock()
	defer rl.sync.fbckMtx.Unlock()
	if f != nil {
		rl.fallbck = f
	} else {
		rl.fallbck = io.Discard
	}
	return rl
}

// Replaces the display side-channels. Sinks are called on the owner context.
func (rl *ReportLog) SetSinks(s Sinks) *ReportLog {
	rl.sync.confMtx.Lock()
	defer rl.sync.confMtx.Unlock()
	rl.sinks = s
	return rl
}

// Sets the presentation service used by Inspect (nil disables it).
func (rl *ReportLog) SetInspector(i Inspector) *ReportLog {
	rl.sync.confMtx.Lock()
	defer rl.sync.confMtx.Unlock()
	rl.inspector = i
	return rl
}

func (rl *ReportLog) getSinks() Sinks {
	rl.sync.confMtx.RLock()
	defer rl.sync.confMtx.RUnlock()
	return rl.sinks
}

/////////////////////////////////////////////////////////////////////////////////////////

// Emit records a message from any goroutine. It never blocks: off the owner
// the work is scheduled and Emit returns at once. Without a scheduler the
// message is silently dropped (logging before the owner attaches is expected).
func (rl *ReportLog) Emit(sev Severity, channel, message string) {
	rl.EmitContext(context.Background(), sev, channel, message)
}

// EmitContext is Emit for callers that may already run on the owner: with the
// owner context the emission is applied inline before EmitContext returns.
func (rl *ReportLog) EmitContext(ctx context.Context, sev Severity, channel, message string) {
	if rl.Scheduler() == nil {
		return
	}
	stamp := rl.clock()
	err := rl.runOnOwner(ctx, func(context.Context) {
		rl.applyEmit(normSeverity(sev), channel, message, stamp)
	})
	if err != nil {
		rl.handleFallback("error scheduling emission: " + err.Error())
	}
}

func (rl *ReportLog) Error(channel, message string) { rl.Emit(SEV_ERROR, channel, message) }

func (rl *ReportLog) Warning(channel, message string) { rl.Emit(SEV_WARNING, channel, message) }

func (rl *ReportLog) Info(channel, message string) { rl.Emit(SEV_INFO, channel, message) }

func (rl *ReportLog) Debug(channel, message string) { rl.Emit(SEV_DEBUG, channel, message) }

// Status emits a transient message: it replaces the previous Status entry if
// nothing else was emitted in between. An empty message only updates the
// current status text.
func (rl *ReportLog) Status(channel, message string) { rl.Emit(SEV_STATUS, channel, message) }

// Clear empties the log, forgets the coalescing reference, resets counters and
// pushes zero to the warning/error readouts. Runs on the owner like Emit.
func (rl *ReportLog) Clear() {
	rl.ClearContext(context.Background())
}

// ClearContext is Clear applied inline when ctx is the owner context.
func (rl *ReportLog) ClearContext(ctx context.Context) {
	if rl.Scheduler() == nil {
		return
	}
	if err := rl.runOnOwner(ctx, func(context.Context) { rl.applyClear() }); err != nil {
		rl.handleFallback("error scheduling clear: " + err.Error())
	}
}

// Snapshot returns the ordered entries (oldest first), read on the owner.
// Returns nil if no scheduler is attached or it refuses work.
//
// Must not be called from the owner context itself, use SnapshotContext with
// the owner context there.
func (rl *ReportLog) Snapshot() []*LogEntry {
	entries, _ := rl.SnapshotContext(context.Background())
	return entries
}

// SnapshotContext is Snapshot with cancellation of the wait for the owner.
func (rl *ReportLog) SnapshotContext(ctx context.Context) ([]*LogEntry, error) {
	var entries []*LogEntry
	err := rl.callOnOwner(ctx, func(context.Context) {
		entries = rl.buffer.entries()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Sync blocks until everything scheduled on the owner before it has run.
func (rl *ReportLog) Sync() error {
	return rl.SyncContext(context.Background())
}

// SyncContext is Sync with cancellation of the wait.
func (rl *ReportLog) SyncContext(ctx context.Context) error {
	return rl.callOnOwner(ctx, func(context.Context) {})
}

// Subscribe registers an observer of structural changes. Registration runs on
// the owner; the entries present at that moment are replayed to the observer as
// ChangeAppend before any later change. The returned cancel unregisters it.
func (rl *ReportLog) Subscribe(o Observer) (cancel func(), err error) {
	return rl.SubscribeContext(context.Background(), o)
}

// SubscribeContext is Subscribe registering inline when ctx is the owner context.
func (rl *ReportLog) SubscribeContext(ctx context.Context, o Observer) (cancel func(), err error) {
	if o == nil {
		return nil, errors.New(_ERROR_MESSAGE_OBSERVER_IS_NIL)
	}
	slot := &observerSlot{observer: o, enabled: true}
	err = rl.runOnOwner(ctx, func(context.Context) {
		rl.observers = append(rl.observers, slot)
		for i, e := range rl.buffer.entries() {
			rl.deliver(slot, Change{Entry: e, Index: i, Kind: ChangeAppend})
		}
	})
	if err != nil {
		return nil, err
	}
	cancelled := false
	cancel = func() {
		err := rl.runOnOwner(context.Background(), func(context.Context) {
			if cancelled {
				return
			}
			cancelled = true
			for i, s := range rl.observers {
				if s == slot {
					rl.observers = append(rl.observers[:i], rl.observers[i+1:]...)
					break
				}
			}
		})
		if err != nil {
			rl.handleFallback("error scheduling unsubscribe: " + err.Error())
		}
	}
	return cancel, nil
}

// Number of accepted Warning emissions since the last Clear.
func (rl *ReportLog) WarningCount() int { return rl.counters.warningCount() }

// Number of accepted Error emissions since the last Clear.
func (rl *ReportLog) ErrorCount() int { return rl.counters.errorCount() }

// The message of the last applied emission, logged or not.
func (rl *ReportLog) StatusText() string {
	if p := rl.status.Load(); p != nil {
		return *p
	}
	return ""
}

// The dirty flag is carried for the owner of the log and not interpreted.
func (rl *ReportLog) IsDirty() bool { return rl.dirty.Load() }

func (rl *ReportLog) SetDirty(dirty bool) { rl.dirty.Store(dirty) }

/////////////////////////////////////////////////////////////////////////////////////////

// runOnOwner executes the action inline when ctx is the owner context and
// schedules it otherwise.
func (rl *ReportLog) runOnOwner(ctx context.Context, action Action) error {
	s := rl.Scheduler()
	if s == nil {
		return errors.New(_ERROR_MESSAGE_NO_SCHEDULER)
	}
	if s.IsOwner(ctx) {
		action(ctx)
		return nil
	}
	return s.Schedule(action)
}

// callOnOwner is runOnOwner that waits for a scheduled action to finish (or
// ctx to be done).
func (rl *ReportLog) callOnOwner(ctx context.Context, f Action) error {
	s := rl.Scheduler()
	if s == nil {
		return errors.New(_ERROR_MESSAGE_NO_SCHEDULER)
	}
	if s.IsOwner(ctx) {
		f(ctx)
		return nil
	}
	done := make(chan struct{})
	err := s.Schedule(func(octx context.Context) {
		defer close(done)
		f(octx)
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// applyEmit performs one emission on the owner context. The order of buffer
// operations is fixed: evict the oldest entry if at capacity, then remove the
// superseded Status entry, then append.
func (rl *ReportLog) applyEmit(sev Severity, channel, message string, stamp time.Time) {
	var entry *LogEntry
	if entryWorthy(sev, message) {
		if rl.buffer.full() {
			evicted := rl.buffer.evictOldest()
			rl.coalescer.forget(evicted)
			rl.notify(Change{Entry: evicted, Index: 0, Kind: ChangeRemove})
		}
		if prev := rl.coalescer.superseded(sev); prev != nil {
			if idx, ok := rl.buffer.removeEntry(prev); ok {
				rl.notify(Change{Entry: prev, Index: idx, Kind: ChangeRemove})
			}
		}
		rl.seq++
		entry = newEntry(rl.seq, sev, channel, message, stamp)
		_, idx := rl.buffer.append(entry)
		rl.notify(Change{Entry: entry, Index: idx, Kind: ChangeAppend})
	}
	rl.coalescer.track(sev, entry)

	sinks := rl.getSinks()
	switch sev {
	case SEV_WARNING:
		n := rl.counters.recordWarning()
		rl.pushCount("warnings", sinks.Warnings, n)
	case SEV_ERROR:
		n := rl.counters.recordError()
		rl.pushCount("errors", sinks.Errors, n)
	}
	rl.status.Store(&message)
	if sinks.Status != nil {
		rl.safeSink("status", func() { sinks.Status(message) })
	}
}

func (rl *ReportLog) applyClear() {
	rl.buffer.clear()
	rl.coalescer.reset()
	rl.counters.reset()
	sinks := rl.getSinks()
	rl.pushCount("warnings", sinks.Warnings, 0)
	rl.pushCount("errors", sinks.Errors, 0)
	rl.notify(Change{Index: -1, Kind: ChangeClear})
}

func (rl *ReportLog) pushCount(name string, sink func(int), n int) {
	if sink != nil {
		rl.safeSink(name, func() { sink(n) })
	}
}

// Calls a sink; a panic is reported to the fallback and does not affect the log.
func (rl *ReportLog) safeSink(name string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			rl.handleFallback("panic in " + name + " sink" + panicDesc(r))
		}
	}()
	f()
}

// Delivers a change to every enabled observer.
func (rl *ReportLog) notify(c Change) {
	for _, slot := range rl.observers {
		if slot.enabled {
			rl.deliver(slot, c)
		}
	}
}

// Delivers a change to one observer; an observer that panics is disabled for
// further notifications.
func (rl *ReportLog) deliver(slot *observerSlot, c Change) {
	defer func() {
		if r := recover(); r != nil {
			slot.enabled = false
			rl.handleFallback("panic in log observer, observer disabled" + panicDesc(r))
		}
	}()
	slot.observer.LogChanged(c)
}

// handleFallback writes a human-readable error message to the fallback writer.
func (rl *ReportLog) handleFallback(errormsg string) {
	rl.sync.fbckMtx.RLock()
	defer rl.sync.fbckMtx.RUnlock()
	if rl.fallbck != nil {
		rl.fallbck.Write([]byte(errormsg + "\n"))
	}
}
