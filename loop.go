package rptlog

import (
	"context"
	"errors"
	"io"
	"sync"
)

// ownerKey marks a context as belonging to a specific OwnerLoop.
type ownerKey struct{}

// OwnerLoop is the stock Scheduler: a single goroutine draining an unbounded
// FIFO queue of actions. Schedule never blocks on capacity, so producers are
// never slowed down by the log.
//
// Ordering: actions run in the order Schedule accepted them. Producers calling
// Schedule at the same time are serialized by the queue mutex in whatever order
// they acquire it; there is no other cross-producer ordering guarantee.
type OwnerLoop struct {
	sync struct {
		statMtx sync.Mutex     // guards state and queue
		cond    *sync.Cond     // signals queued actions and state changes
		waitEnd sync.WaitGroup // tracks background goroutine lifecycle
	}
	queue   []Action
	ctx     context.Context // owner context passed to every action
	fallbck OutType
	state   loopState
}

// Creates a stopped owner loop. Panics of actions are reported to fallback
// (io.Discard is used for nil).
func NewOwnerLoop(fallback OutType) *OwnerLoop {
	l := new(OwnerLoop)
	l.sync.cond = sync.NewCond(&l.sync.statMtx)
	l.state = _STATE_STOPPED
	if fallback == nil {
		fallback = io.Discard
	}
	l.fallbck = fallback
	l.ctx = context.WithValue(context.Background(), ownerKey{}, l)
	return l
}

// Start launches the goroutine that runs queued actions. An error is returned
// if the loop is already active or still draining after Stop().
func (l *OwnerLoop) Start() error {
	l.sync.statMtx.Lock()
	defer l.sync.statMtx.Unlock()
	switch l.state {
	case _STATE_ACTIVE:
		return errors.New(_ERROR_MESSAGE_LOOP_STARTED)
	case _STATE_STOPPING:
		return errors.New(_ERROR_MESSAGE_LOOP_STOPPING)
	}
	l.setState(_STATE_ACTIVE)
	l.sync.waitEnd.Go(func() { l.procced() })
	return nil
}

// Stop refuses further actions. Actions already queued are still executed
// before the goroutine exits; use Wait() to block until then.
func (l *OwnerLoop) Stop() {
	l.sync.statMtx.Lock()
	defer l.sync.statMtx.Unlock()
	if l.state == _STATE_ACTIVE {
		l.setState(_STATE_STOPPING)
		l.sync.cond.Broadcast()
	}
}

// Wait blocks until the background goroutine has finished.
func (l *OwnerLoop) Wait() {
	l.sync.waitEnd.Wait()
}

// A convenience to Stop() and then Wait() for completion.
func (l *OwnerLoop) StopAndWait() {
	l.Stop()
	l.Wait()
}

// True if the loop accepts actions.
func (l *OwnerLoop) IsActive() bool {
	l.sync.statMtx.Lock()
	defer l.sync.statMtx.Unlock()
	return l.state == _STATE_ACTIVE
}

// Number of actions waiting to be executed.
func (l *OwnerLoop) Pending() int {
	l.sync.statMtx.Lock()
	defer l.sync.statMtx.Unlock()
	return len(l.queue)
}

// IsOwner reports whether ctx is the context this loop passes to its actions.
func (l *OwnerLoop) IsOwner(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	owner, ok := ctx.Value(ownerKey{}).(*OwnerLoop)
	return ok && owner == l
}

// Schedule appends the action to the queue and returns immediately.
func (l *OwnerLoop) Schedule(action Action) error {
	if action == nil {
		return errors.New(_ERROR_MESSAGE_ACTION_IS_NIL)
	}
	l.sync.statMtx.Lock()
	defer l.sync.statMtx.Unlock()
	if l.state != _STATE_ACTIVE {
		return errors.New(_ERROR_MESSAGE_LOOP_INACTIVE)
	}
	l.queue = append(l.queue, action)
	l.sync.cond.Signal()
	return nil
}

// setState must be called with statMtx held.
func (l *OwnerLoop) setState(newstate loopState) {
	l.state = normState(newstate)
}

// procced is the background loop: it pops actions from the front of the queue
// until the loop is stopping and the queue is drained. The loop is marked
// stopped under the same lock that observed the empty queue.
func (l *OwnerLoop) procced() {
	for {
		l.sync.statMtx.Lock()
		for len(l.queue) == 0 && l.state == _STATE_ACTIVE {
			l.sync.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.setState(_STATE_STOPPED)
			l.sync.statMtx.Unlock()
			return
		}
		action := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		if len(l.queue) == 0 {
			l.queue = nil
		}
		l.sync.statMtx.Unlock()
		l.runAction(action)
	}
}

// runAction executes one action; a panic is described on the fallback writer
// and does not stop the loop.
func (l *OwnerLoop) runAction(action Action) {
	defer func() {
		if r := recover(); r != nil {
			l.fbckWriteln("panic running owner action" + panicDesc(r))
		}
	}()
	action(l.ctx)
}

// fbckWriteln writes a single-line message to the fallback writer.
func (l *OwnerLoop) fbckWriteln(s string) {
	l.fallbck.Write([]byte(s + "\n"))
}
