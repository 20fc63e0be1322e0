package rptlog

import "strings"

// InspectText renders one entry for a details dialog:
//
//	Level: <severity name>
//	Time: <dd MMM yy HH:mm:ss>
//
//	<message>
func InspectText(e *LogEntry) string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(e.message) + 48)
	sb.WriteString("Level: ")
	sb.WriteString(e.severity.String())
	sb.WriteString("\nTime: ")
	sb.WriteString(e.TimeString())
	sb.WriteString("\n\n")
	sb.WriteString(e.message)
	return sb.String()
}

// Inspect hands the rendering of the entry to the inspector (ShowEntry) and
// the raw message to its clipboard (CopyText). Inspector failures are written
// to the fallback; the log itself is never touched. Returns the rendering.
func (rl *ReportLog) Inspect(e *LogEntry) string {
	details := InspectText(e)
	if e == nil {
		return details
	}
	rl.sync.confMtx.RLock()
	inspector := rl.inspector
	rl.sync.confMtx.RUnlock()
	if inspector == nil {
		return details
	}
	rl.safeInspect("show", func() error { return inspector.ShowEntry(details) })
	rl.safeInspect("copy", func() error { return inspector.CopyText(e.message) })
	return details
}

func (rl *ReportLog) safeInspect(op string, f func() error) {
	defer func() {
		if r := recover(); r != nil {
			rl.handleFallback("panic in inspector " + op + panicDesc(r))
		}
	}()
	if err := f(); err != nil {
		rl.handleFallback("inspector " + op + " failed: " + err.Error())
	}
}
