// Package audit turns filter verdicts into event records and ships them to
// sinks. The catalogue mirrors the event-log messages administrators already
// search for: five codes in three categories, each with %1/%2 inserts.
package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/pwfilter/internal/security/password"
)

type Severity string

const (
	SeverityInformation Severity = "information"
	SeverityWarning     Severity = "warning"
	SeverityError       Severity = "error"
)

type Category uint16

const (
	CategorySettings Category = 1
	CategoryIO       Category = 2
	CategoryRuntime  Category = 3
)

func (c Category) String() string {
	switch c {
	case CategorySettings:
		return "settings"
	case CategoryIO:
		return "io"
	case CategoryRuntime:
		return "runtime"
	}
	return "unknown"
}

type Code uint32

const (
	CodeSettingsRead   Code = 0xC0000100
	CodeOpenFile       Code = 0xC0040101
	CodePasswordForced Code = 0x40020102
	CodeRuntimeError   Code = 0xC0020103
	CodeNotCompliant   Code = 0x40020104
)

var templates = map[Code]string{
	CodeSettingsRead:   "Cannot read the setting '%1' in scope '%2'.",
	CodeOpenFile:       "Cannot open the file '%1' or the file is too big.",
	CodePasswordForced: "The password, for the account '%1', has not been checked because it was forced by an administrator.",
	CodeRuntimeError:   "The function stopped prematurely. The associated message is \"%1\".",
	CodeNotCompliant:   "The password, for the account '%1', is not compliant. Reason returned: \"%2\".",
}

func (c Code) String() string { return fmt.Sprintf("0x%08X", uint32(c)) }

// Inserts used with CodeNotCompliant and CodeRuntimeError.
const (
	MsgDictionaryMatch  = "The password contains a forbidden word."
	MsgBlacklistMatch   = "This password is a prohibited one."
	MsgAllocation       = "memory allocation failure"
	MsgInternal         = "internal error"
	MsgMalformedPattern = "malformed entry in %s list"
)

// Record is one audit event. Inserts never hold password material or list
// entries.
type Record struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Severity Severity  `json:"severity"`
	Category Category  `json:"category"`
	Code     Code      `json:"code"`
	Reason   string    `json:"reason"`
	Inserts  []string  `json:"inserts,omitempty"`
}

// Message renders the code's template with the inserts.
func (r Record) Message() string {
	tmpl, ok := templates[r.Code]
	if !ok {
		return strings.Join(r.Inserts, " ")
	}
	// Una sola pasada: un insert que contenga "%2" no se vuelve a expandir.
	pairs := make([]string, 0, 2*len(r.Inserts))
	for i, s := range r.Inserts {
		pairs = append(pairs, fmt.Sprintf("%%%d", i+1), s)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func newRecord(sev Severity, cat Category, code Code, reason string, inserts ...string) Record {
	return Record{
		ID:       uuid.NewString(),
		Time:     time.Now().UTC(),
		Severity: sev,
		Category: cat,
		Code:     code,
		Reason:   reason,
		Inserts:  inserts,
	}
}

// FromVerdict maps a verdict to its audit record. A compliant verdict from a
// normal check has nothing to report and returns ok=false.
func FromVerdict(account string, v password.Verdict) (Record, bool) {
	reason := v.Reason.String()
	switch v.Reason {
	case password.ReasonForcedChange:
		return newRecord(SeverityInformation, CategoryRuntime, CodePasswordForced, reason, account), true
	case password.ReasonDictionaryMatch:
		return newRecord(SeverityInformation, CategoryRuntime, CodeNotCompliant, reason, account, MsgDictionaryMatch), true
	case password.ReasonBlacklistMatch:
		return newRecord(SeverityInformation, CategoryRuntime, CodeNotCompliant, reason, account, MsgBlacklistMatch), true
	case password.ReasonAllocationFailure:
		return newRecord(SeverityError, CategoryRuntime, CodeRuntimeError, reason, MsgAllocation), true
	case password.ReasonInternalError:
		return newRecord(SeverityError, CategoryRuntime, CodeRuntimeError, reason, MsgInternal), true
	case password.ReasonConfigUnreadable:
		return newRecord(SeverityError, CategorySettings, CodeSettingsRead, reason, v.Key, v.Scope), true
	case password.ReasonResourceUnavailable:
		if v.Path == "" {
			return newRecord(SeverityError, CategorySettings, CodeSettingsRead, reason, v.Key, v.Scope), true
		}
		return newRecord(SeverityError, CategoryIO, CodeOpenFile, reason, v.Path), true
	case password.ReasonMalformedEntry:
		return newRecord(SeverityError, CategoryRuntime, CodeRuntimeError, reason, fmt.Sprintf(MsgMalformedPattern, listOf(v.Phase))), true
	}
	return Record{}, false
}

func listOf(p password.Phase) string {
	if p == password.PhaseBlacklist {
		return password.BlacklistMatcher.Kind
	}
	return password.DictionaryMatcher.Kind
}
