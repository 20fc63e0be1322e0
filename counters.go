package rptlog

import "sync/atomic"

// levelCounters counts accepted Warning and Error emissions since the last
// reset. Increments and resets happen on the owner context only; the atomics
// make the accessors safe for readers on other goroutines.
type levelCounters struct {
	warnings atomic.Int64
	errors   atomic.Int64
}

func (c *levelCounters) recordWarning() int { return int(c.warnings.Add(1)) }
func (c *levelCounters) recordError() int   { return int(c.errors.Add(1)) }

func (c *levelCounters) reset() {
	c.warnings.Store(0)
	c.errors.Store(0)
}

func (c *levelCounters) warningCount() int { return int(c.warnings.Load()) }
func (c *levelCounters) errorCount() int   { return int(c.errors.Load()) }
