package rptlog

// statusCoalescer remembers the last Status entry added to the buffer so the
// next Status entry replaces it instead of piling up. The reference is weak:
// the buffer owns entries, and a reference to an entry that is already gone
// (evicted or cleared) makes the removal a no-op.
type statusCoalescer struct {
	last *LogEntry
}

// True if an emission results in a durable entry. None never reaches the
// buffer, Status only with a non-empty message. The shorter rule "not None or
// Status, or message non-empty" would log a None with text; None is kept
// side-channel only regardless of its message.
func entryWorthy(sev Severity, message string) bool {
	switch sev {
	case SEV_NONE:
		return false
	case SEV_STATUS:
		return message != ""
	default:
		return true
	}
}

// Returns the entry that has to be removed before appending an entry of the
// given severity (nil if nothing is superseded).
func (c *statusCoalescer) superseded(sev Severity) *LogEntry {
	if sev != SEV_STATUS {
		return nil
	}
	return c.last
}

// Records the outcome of an emission: a Status entry becomes the new reference,
// anything else (including a non-worthy emission, entry == nil) breaks the chain.
func (c *statusCoalescer) track(sev Severity, entry *LogEntry) {
	if sev == SEV_STATUS && entry != nil {
		c.last = entry
	} else {
		c.last = nil
	}
}

// Drops the reference if it points to the given entry (called on eviction).
func (c *statusCoalescer) forget(e *LogEntry) {
	if e != nil && c.last == e {
		c.last = nil
	}
}

func (c *statusCoalescer) reset() {
	c.last = nil
}
