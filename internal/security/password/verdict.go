package password

// Reason is the audit-only explanation attached to a Verdict.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonForcedChange
	ReasonDictionaryMatch
	ReasonBlacklistMatch
	ReasonMalformedEntry
	ReasonResourceUnavailable
	ReasonConfigUnreadable
	ReasonAllocationFailure

	// ReasonInternalError is set by callers that recover from a panic
	// around Validate.
	ReasonInternalError
)

var reasonNames = [...]string{
	ReasonNone:                "none",
	ReasonForcedChange:        "forced_change",
	ReasonDictionaryMatch:     "dictionary_match",
	ReasonBlacklistMatch:      "blacklist_match",
	ReasonMalformedEntry:      "malformed_entry",
	ReasonResourceUnavailable: "resource_unavailable",
	ReasonConfigUnreadable:    "configuration_unreadable",
	ReasonAllocationFailure:   "allocation_failure",
	ReasonInternalError:       "internal_error",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return "unknown"
	}
	return reasonNames[r]
}

// PolicyDecision is true for the two reasons that come from list contents.
func (r Reason) PolicyDecision() bool {
	return r == ReasonDictionaryMatch || r == ReasonBlacklistMatch
}

// FailClosed is true for denials caused by an infrastructure failure.
func (r Reason) FailClosed() bool {
	switch r {
	case ReasonMalformedEntry, ReasonResourceUnavailable, ReasonConfigUnreadable, ReasonAllocationFailure, ReasonInternalError:
		return true
	}
	return false
}

// Phase names the pipeline step that produced a verdict.
type Phase string

const (
	PhaseForcedCheck Phase = "forced_check"
	PhaseAllocate    Phase = "allocate"
	PhaseConfigRead  Phase = "config_read"
	PhaseDictionary  Phase = "dictionary"
	PhaseBlacklist   Phase = "blacklist"
	PhaseVerdict     Phase = "verdict"
)

// ScanStats counts the non-blank entries compared in each list.
type ScanStats struct {
	Dictionary int
	Blacklist  int
}

// Verdict is the outcome of one validation. Everything but Compliant is for
// the audit trail; none of it names a matching entry.
type Verdict struct {
	Compliant bool
	Reason    Reason
	Phase     Phase

	// Scope and Key identify the setting involved in a configuration or
	// resource failure. Path is the list that failed to open or parse.
	Scope string
	Key   string
	Path  string

	Scanned ScanStats
	Err     error
}

// UserMessage is the only text meant for the account holder.
func (v Verdict) UserMessage() string {
	if v.Compliant {
		return "password accepted"
	}
	return "password rejected"
}

func allow(r Reason, p Phase) Verdict { return Verdict{Compliant: true, Reason: r, Phase: p} }

func deny(r Reason, p Phase, err error) Verdict {
	return Verdict{Reason: r, Phase: p, Err: err}
}
