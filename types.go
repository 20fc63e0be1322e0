package rptlog

/*
Defines the core data types of the report log:
  - basetype and the byte-sized enums built on it
  - LogEntry: immutable record of one accepted message
  - Change/Observer: structural notifications for list models
  - Scheduler/Action: the owner context capability the log runs on
  - ReportLog: the façade owning buffer, coalescer and counters
  - Channel: named producer handle (see clients.go)

All log state (buffer, coalescing reference, observers) is touched only by
actions running on the owner context. Values that are read from arbitrary
goroutines (counters, status text, dirty flag) are stored in atomics.
*/

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

type basetype byte // basetype is the underlying byte-sized representation used for enums

type Severity basetype // Message class (alias for byte)
type IconRef string    // Opaque icon reference handed to the presentation layer
type ChangeKind basetype
type loopState basetype

type OutType io.Writer // Fallback and console outputs (alias for io.Writer)

// SeverityMap is a fixed-size array with one entry per severity. Used for
// names, icons and colors.
type SeverityMap [_SEV_MAX_for_checks_only]string

// LogEntry is one durable message in the report log. It is created on the owner
// context by an accepted emission and never changes afterwards; entries only
// leave the log by eviction, coalescing or Clear.
type LogEntry struct {
	stamp    time.Time // emission time (taken in the producer's call)
	channel  string    // free-form source tag
	message  string
	icon     IconRef
	seq      uint64 // insertion number, unique per ReportLog
	severity Severity
}

// Change describes one structural change of the entry sequence. Index is the
// position the entry had (ChangeRemove) or got (ChangeAppend); it is -1 for
// ChangeClear.
type Change struct {
	Entry *LogEntry
	Index int
	Kind  ChangeKind
}

// Observer receives structural changes of the log. LogChanged is always called
// on the owner context, so an observer may keep its own list without locking.
type Observer interface {
	LogChanged(c Change)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(c Change)

func (f ObserverFunc) LogChanged(c Change) { f(c) }

// Action is a unit of work executed on the owner context. The context passed in
// is recognized by the scheduler as the owner (Scheduler.IsOwner returns true).
type Action func(ctx context.Context)

// Scheduler is the owner context capability the log is attached to.
//
// IsOwner reports whether ctx belongs to the owner context (the action may run
// inline). Schedule enqueues an action for later FIFO execution on the owner
// and returns immediately; an error means the action was not accepted.
type Scheduler interface {
	IsOwner(ctx context.Context) bool
	Schedule(action Action) error
}

// Sinks are display side-channels the log pushes values into on the owner
// context. Any of them may be nil.
type Sinks struct {
	Status   func(text string) // current status text, updated on every emission
	Warnings func(count int)   // warning readout
	Errors   func(count int)   // error readout
}

// Inspector is the presentation service used by ReportLog.Inspect.
type Inspector interface {
	ShowEntry(details string) error // show the formatted rendering of one entry
	CopyText(text string) error     // put the raw message on the clipboard
}

// Options holds construction settings of a ReportLog, see DefaultOptions.
type Options struct {
	Fallback  OutType          // internal error sink (nil means io.Discard)
	Inspector Inspector        // presentation service for Inspect (may be nil)
	Clock     func() time.Time // emission timestamp source
	Sinks     Sinks
	Capacity  int // max entries kept; 0 or negative disables eviction
}

// ReportLog is the bounded, order-preserving report log.
type ReportLog struct {
	sync struct {
		confMtx sync.RWMutex // guards scheduler, inspector and sinks
		fbckMtx sync.RWMutex // guards access to fallback writer
	}
	sched     Scheduler
	loop      *OwnerLoop // set when the log owns its scheduler (InitAndStart)
	fallbck   OutType
	inspector Inspector
	clock     func() time.Time
	sinks     Sinks

	// owner-only state
	buffer    *eventBuffer
	coalescer statusCoalescer
	observers []*observerSlot
	seq       uint64

	// readable from any goroutine
	counters levelCounters
	status   atomic.Pointer[string]
	dirty    atomic.Bool
}

// observerSlot keeps an observer together with its enabled flag; an observer
// that panics is disabled for further notifications.
type observerSlot struct {
	observer Observer
	enabled  bool
}

// Channel is a lightweight producer handle bound to one ReportLog. It carries
// the channel tag written into entries and can be disabled separately.
//
// Channels are created by ReportLog.NewChannel().
type Channel struct {
	rlog     *ReportLog
	name     string
	curLevel Severity // current severity used by Write / fmt.Fprintf helpers
	enabled  atomic.Bool
}
