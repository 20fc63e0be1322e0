package rptlog

/*
Package-wide constants, enums and lookup tables used by the report log:
  - default sizes and values
  - enums for severities, change kinds and loop states
  - severity names, icons and ANSI colors as static tables
  - normalization helpers
*/

const (
	// Severity values. The trailing _SEV_MAX_for_checks_only is used as an
	// exclusive upper bound for normalization checks.
	SEV_NONE Severity = iota
	SEV_ERROR
	SEV_WARNING
	SEV_INFO
	SEV_STATUS
	SEV_DEBUG
	_SEV_MAX_for_checks_only
)

const (
	// Default values for short init forms
	DEFAULT_CAPACITY    = 1000                 // default number of entries kept by the log
	DEFAULT_OUT_BUFF    = 256                  // initial buffer size for console output text
	DEFAULT_DELIMITER   = ":"                  // default delimiter between console fields
	DISPLAY_TIME_FORMAT = "02 Jan 06 15:04:05" // dd MMM yy HH:mm:ss
)

const (
	// Icon references resolved once per entry from its severity.
	ICON_NONE  IconRef = ""
	ICON_INFO  IconRef = "info-icon"
	ICON_WARN  IconRef = "warn-icon"
	ICON_ERROR IconRef = "error-icon"
	ICON_DEBUG IconRef = "debug-icon"
)

const (
	// Structural change kinds delivered to observers.
	ChangeAppend ChangeKind = iota
	ChangeRemove
	ChangeClear
)

const (
	// Owner loop lifecycle states.
	_STATE_UNKNOWN loopState = iota
	_STATE_ACTIVE
	_STATE_STOPPING
	_STATE_STOPPED
	_STATE_MAX_for_checks_only
)

const (
	// ANSI colored text fragments prefix/suffix used when colors are requested.
	// For a colored piece of text the sequence will be:
	// ANSI_COL_PRFX + colorSpec + ANSI_COL_SUFX + text + ANSI_COL_RESET
	ANSI_COL_PRFX  = "\033["
	ANSI_COL_SUFX  = "m"
	ANSI_COL_RESET = ANSI_COL_PRFX + "0" + ANSI_COL_SUFX
)

const (
	// Error messages used across log operations (used for testing).
	_ERROR_MESSAGE_LOOP_STARTED     = "owner loop is already started"
	_ERROR_MESSAGE_LOOP_INACTIVE    = "owner loop is not active"
	_ERROR_MESSAGE_LOOP_STOPPING    = "owner loop is still draining"
	_ERROR_MESSAGE_ACTION_IS_NIL    = "action is nil"
	_ERROR_MESSAGE_NO_SCHEDULER     = "no owner scheduler attached"
	_ERROR_MESSAGE_OBSERVER_IS_NIL  = "observer is nil"
	_ERROR_MESSAGE_CHANNEL_IS_NIL   = "channel is nil"
	_ERROR_MESSAGE_CHANNEL_IS_ALIEN = "channel belongs to another report log"
	_ERROR_UNKNOWN_PANIC_TEXT       = "[no panic description]"
)

/////////////////////////////////////////////////////////////////////////////////////////

// Severity names used in inspection texts and console prefixes
var SeverityNames = &SeverityMap{
	"None",    //SEV_NONE
	"Error",   //SEV_ERROR
	"Warning", //SEV_WARNING
	"Info",    //SEV_INFO
	"Status",  //SEV_STATUS
	"Debug",   //SEV_DEBUG
}

// Short severity names (for console prefixes)
var SeverityShortNames = &SeverityMap{
	"---", //SEV_NONE
	"ERR", //SEV_ERROR
	"WRN", //SEV_WARNING
	"INF", //SEV_INFO
	"STS", //SEV_STATUS
	"DBG", //SEV_DEBUG
}

// Icon references per severity, the only place visual concerns touch the core
var SeverityIcons = &SeverityMap{
	string(ICON_NONE),  //SEV_NONE
	string(ICON_ERROR), //SEV_ERROR
	string(ICON_WARN),  //SEV_WARNING
	string(ICON_INFO),  //SEV_INFO
	string(ICON_NONE),  //SEV_STATUS
	string(ICON_DEBUG), //SEV_DEBUG
}

// Predefined color map for ANSI terminal
var SeverityColorOnBlackMap = &SeverityMap{
	"2;90", //SEV_NONE
	"0;91", //SEV_ERROR
	"0;33", //SEV_WARNING
	"0;97", //SEV_INFO
	"3;36", //SEV_STATUS
	"0;90", //SEV_DEBUG
}

// Generic byte normalization helper.
func norm_byte[T ~byte](val, overlimit, def T) T {
	if val < overlimit {
		return val
	} else {
		return def
	}
}

// Ensures a provided loopState is within the valid range
func normState(state loopState) loopState {
	return norm_byte(state, _STATE_MAX_for_checks_only, _STATE_UNKNOWN)
}

// Ensures a provided Severity is within the valid range (unknown values become SEV_NONE)
func normSeverity(sev Severity) Severity {
	return norm_byte(sev, _SEV_MAX_for_checks_only, SEV_NONE)
}

// Returns the display name of a severity.
func (s Severity) String() string {
	return SeverityNames[normSeverity(s)]
}

// Resolves the icon reference for a severity from SeverityIcons.
func IconFor(sev Severity) IconRef {
	return IconRef(SeverityIcons[normSeverity(sev)])
}

// Converts a panic value into a compact readable string (used when
// translating panics into fallback messages)
func panicDesc(panic any) (errtext string) {
	switch v := panic.(type) {
	case string:
		errtext = ": `" + v + "`"
	case error:
		errtext = ": (error) `" + v.Error() + "`"
	default:
		errtext = " " + _ERROR_UNKNOWN_PANIC_TEXT
	}
	return errtext
}
