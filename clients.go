package rptlog

/*
A Channel is an abstraction for a program part (decoder, player, exporter...)
that emits into the report log under its own tag. Its name becomes the channel
of every entry it produces and it can be disabled regardless of other channels.
Enabling is changed only through the owning log (SetChannelEnabled) to keep log
management in one place.

Channel methods are safe for concurrent use except the io.Writer pair
Lvl()/Write(), which shares the current severity between calls.
*/

import (
	"errors"
	"strings"
)

// Constructs a new enabled channel owned by this report log.
func (rl *ReportLog) NewChannel(name string) *Channel {
	ch := &Channel{
		rlog:     rl,
		name:     name,
		curLevel: SEV_INFO, // Used only for io.Writer usage
	}
	ch.enabled.Store(true)
	return ch
}

// Validates that the channel belongs to this report log
func (rl *ReportLog) IsOwnChannel(ch *Channel) bool {
	return ch != nil && ch.rlog == rl
}

// Validates that the channel belongs to this report log with extended error text
func (rl *ReportLog) checkChannel(ch *Channel) (err error) {
	if ch == nil {
		err = errors.New(_ERROR_MESSAGE_CHANNEL_IS_NIL)
	} else if ch.rlog != rl {
		err = errors.New(_ERROR_MESSAGE_CHANNEL_IS_ALIEN)
	}
	return
}

// Toggles whether messages of a channel reach the log.
func (rl *ReportLog) SetChannelEnabled(ch *Channel, enabled bool) error {
	err := rl.checkChannel(ch)
	if err == nil {
		ch.enabled.Store(enabled)
	}
	return err
}

// Name of the channel, written into every entry it emits.
func (ch *Channel) Name() string { return ch.name }

func (ch *Channel) IsEnabled() bool { return ch.enabled.Load() }

// Emits a message at the provided severity. Disabled channels and channels
// without a log drop the message silently.
func (ch *Channel) Log(sev Severity, s string) {
	if ch.rlog == nil || !ch.enabled.Load() {
		return
	}
	ch.rlog.Emit(sev, ch.name, s)
}

/////////////////////////////////////////////////////////////////////////////////////////
/*
Convenience severity-specific helpers. These are thin wrappers around Log that
provide inline hints in editors and documentation tools.
*/

// Logs an error message.
func (ch *Channel) Error(s string) { ch.Log(SEV_ERROR, s) }

// Logs an error value at SEV_ERROR. Semantically equivalent to
//
//	Error(err.Error())
//
// but clearer at call sites when you already have an error object. Nil errors
// are ignored.
func (ch *Channel) Err(e error) {
	if e != nil {
		ch.Log(SEV_ERROR, e.Error())
	}
}

// Logs a warning for recoverable or noteworthy conditions.
func (ch *Channel) Warning(s string) { ch.Log(SEV_WARNING, s) }

// Logs a normal operational message.
func (ch *Channel) Info(s string) { ch.Log(SEV_INFO, s) }

// Logs a developer-focused message.
func (ch *Channel) Debug(s string) { ch.Log(SEV_DEBUG, s) }

// Reports transient progress; consecutive statuses replace each other.
func (ch *Channel) Status(s string) { ch.Log(SEV_STATUS, s) }

/////////////////////////////////////////////////////////////////////////////////////////
// io.Writer interface implementation

// Lvl sets the channel's current severity (used by Write/fmt.Fprintf) and
// returns the same channel for convenient chaining.
func (ch *Channel) Lvl(sev Severity) *Channel {
	ch.curLevel = normSeverity(sev)
	return ch
}

// Write implements io.Writer. It emits the provided bytes (one trailing line
// break trimmed) at the channel's current severity and always returns len(p).
// This allows patterns like:
//
//	fmt.Fprintf(ch.Lvl(SEV_WARNING), "dropped %d frames", n)
//
// but remember that Lvl()+Write() pairs are not goroutine-safe!
func (ch *Channel) Write(p []byte) (n int, err error) {
	if p == nil {
		return 0, nil
	}
	s := strings.TrimSuffix(string(p), "\n")
	s = strings.TrimSuffix(s, "\r")
	ch.Log(ch.curLevel, s)
	return len(p), nil
}
