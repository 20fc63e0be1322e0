package rptlog

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

const CONSOLE_CLEAR_MARKER = "--- log cleared ---"

// ConsoleObserver is a minimal list model that prints every appended entry to
// an output, one line per entry. Removals are not printed (a console cannot
// take lines back); Clear prints CONSOLE_CLEAR_MARKER.
//
// Like every Observer it is driven on the owner context, so its settings must
// be changed before it is subscribed.
type ConsoleObserver struct {
	out       OutType
	fallbck   OutType
	colormap  *SeverityMap // severity-associated ANSI terminal color fragments
	prefixmap *SeverityMap // per-severity textual prefix
	delimiter []byte       // separator after prefix/channel name
	timefmt   string       // time.Format string; if empty, no timestamp is written
	showicon  bool         // whether to write the icon reference like "[warn-icon]"
	msgbuf    *bytes.Buffer
}

// Creates a console observer writing to out with short severity prefixes and
// display timestamps. Colors are enabled only if out is a terminal. Write
// errors are reported to fallback (io.Discard is used for nil).
func NewConsoleObserver(out, fallback OutType) *ConsoleObserver {
	if fallback == nil {
		fallback = io.Discard
	}
	c := &ConsoleObserver{
		out:       out,
		fallbck:   fallback,
		prefixmap: SeverityShortNames,
		delimiter: []byte(DEFAULT_DELIMITER),
		timefmt:   DISPLAY_TIME_FORMAT + " ",
		msgbuf:    bytes.NewBuffer(make([]byte, 0, DEFAULT_OUT_BUFF)),
	}
	if isTerminal(out) {
		c.colormap = SeverityColorOnBlackMap
	}
	return c
}

// True if the output is a file descriptor attached to a terminal.
func isTerminal(out OutType) bool {
	f, ok := out.(*os.File)
	return ok && f != nil && term.IsTerminal(int(f.Fd()))
}

// Sets the prefix map (per-severity prefix, nil for none) and the delimiter.
func (c *ConsoleObserver) SetSeverityPrefix(prefixmap *SeverityMap, delimiter string) *ConsoleObserver {
	c.prefixmap = prefixmap
	c.delimiter = []byte(delimiter)
	return c
}

// Assigns a color map (ANSI fragments), nil disables colors.
func (c *ConsoleObserver) SetSeverityColor(colormap *SeverityMap) *ConsoleObserver {
	c.colormap = colormap
	return c
}

// Sets the time.Format layout used to prefix lines. If empty no timestamp is written.
func (c *ConsoleObserver) SetTimeFormat(format, delimiter string) *ConsoleObserver {
	if format == "" {
		c.timefmt = ""
	} else {
		c.timefmt = format + delimiter
	}
	return c
}

// Enables writing the entry icon reference after the prefix.
func (c *ConsoleObserver) ShowIcons() *ConsoleObserver {
	c.showicon = true
	return c
}

// LogChanged implements Observer.
func (c *ConsoleObserver) LogChanged(ch Change) {
	switch ch.Kind {
	case ChangeAppend:
		c.write(buildEntryLine(c.msgbuf, ch.Entry, c))
	case ChangeClear:
		c.msgbuf.Reset()
		c.msgbuf.WriteString(CONSOLE_CLEAR_MARKER + "\n")
		c.write(c.msgbuf)
	}
}

func (c *ConsoleObserver) write(buf *bytes.Buffer) {
	if c.out == nil || buf.Len() == 0 {
		return
	}
	n, err := buf.WriteTo(c.out)
	if err != nil {
		c.fallbck.Write([]byte("error writing log to console (" + strconv.FormatInt(n, 10) + " bytes written): " + err.Error() + "\n"))
	}
}

// buildEntryLine constructs the console line for an entry into outBuffer
// (reset first) and returns the same buffer.
func buildEntryLine(outBuffer *bytes.Buffer, e *LogEntry, c *ConsoleObserver) *bytes.Buffer {
	outBuffer.Reset()
	if e == nil {
		return outBuffer
	}
	sev := normSeverity(e.severity)
	withColor := false
	if len(c.timefmt) > 0 {
		outBuffer.WriteString(e.stamp.Format(c.timefmt))
	}
	if c.prefixmap != nil {
		outBuffer.WriteString(c.prefixmap[sev])
		outBuffer.Write(c.delimiter)
	}
	if c.showicon && e.icon != ICON_NONE {
		outBuffer.WriteString("[" + string(e.icon) + "]")
		outBuffer.Write(c.delimiter)
	}
	if c.colormap != nil {
		withColor = true
		outBuffer.WriteString(ANSI_COL_PRFX)
		outBuffer.WriteString(c.colormap[sev])
		outBuffer.WriteString(ANSI_COL_SUFX)
	}
	if len(e.channel) > 0 {
		outBuffer.WriteString(e.channel)
		outBuffer.Write(c.delimiter)
	}
	outBuffer.WriteString(e.message)
	if withColor {
		outBuffer.WriteString(ANSI_COL_RESET)
	}
	outBuffer.WriteByte('\n')
	return outBuffer
}
