package rptlog

import "time"

// Builds an entry; the icon is resolved once here from the severity.
func newEntry(seq uint64, sev Severity, channel, message string, stamp time.Time) *LogEntry {
	sev = normSeverity(sev)
	return &LogEntry{
		stamp:    stamp,
		channel:  channel,
		message:  message,
		icon:     IconFor(sev),
		seq:      seq,
		severity: sev,
	}
}

func (e *LogEntry) Severity() Severity   { return e.severity }
func (e *LogEntry) Timestamp() time.Time { return e.stamp }
func (e *LogEntry) Channel() string      { return e.channel }
func (e *LogEntry) Message() string      { return e.message }
func (e *LogEntry) Icon() IconRef        { return e.icon }

// Seq is the insertion number of the entry; later entries have larger values.
func (e *LogEntry) Seq() uint64 { return e.seq }

// TimeString returns the timestamp in DISPLAY_TIME_FORMAT.
func (e *LogEntry) TimeString() string {
	return e.stamp.Format(DISPLAY_TIME_FORMAT)
}
