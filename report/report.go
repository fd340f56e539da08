package report

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Type classifies what kind of entity a report targets.
type Type string

const (
	TypeUser    Type = "user"
	TypeGroup   Type = "group"
	TypeChannel Type = "channel"
)

// Types lists selectable report types in presentation order.
var Types = []Type{TypeUser, TypeGroup, TypeChannel}

var typeLabels = map[Type]string{
	TypeUser:    "👤 User",
	TypeGroup:   "👥 Group",
	TypeChannel: "📢 Channel",
}

// Valid reports whether t is one of the selectable report types.
func (t Type) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// Label returns the human-readable button label for the type.
func (t Type) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Reason enumerates the fixed set of report reasons.
type Reason string

const (
	ReasonSpam          Reason = "spam"
	ReasonScam          Reason = "scam"
	ReasonHarassment    Reason = "harassment"
	ReasonIllegal       Reason = "illegal"
	ReasonImpersonation Reason = "impersonation"
	ReasonOther         Reason = "other"
)

// Reasons lists selectable reasons in presentation order.
var Reasons = []Reason{
	ReasonSpam,
	ReasonScam,
	ReasonHarassment,
	ReasonIllegal,
	ReasonImpersonation,
	ReasonOther,
}

var reasonLabels = map[Reason]string{
	ReasonSpam:          "📧 Spam",
	ReasonScam:          "💰 Scam/Fraud",
	ReasonHarassment:    "⚠️ Harassment",
	ReasonIllegal:       "🚫 Illegal Content",
	ReasonImpersonation: "👤 Impersonation",
	ReasonOther:         "📌 Other",
}

// Valid reports whether r is one of the selectable reasons.
func (r Reason) Valid() bool {
	_, ok := reasonLabels[r]
	return ok
}

// Label returns the human-readable button label for the reason.
func (r Reason) Label() string {
	if label, ok := reasonLabels[r]; ok {
		return label
	}
	return string(r)
}

// Title returns the reason key with the first letter upper-cased,
// matching how summaries and report messages display it.
func (r Reason) Title() string {
	s := string(r)
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// NoDetails is stored when the reporter skips the free-text details step.
const NoDetails = "No additional details provided."

// Draft is the partially filled report assembled across conversation steps.
// Fields are populated strictly in step order.
type Draft struct {
	Type    Type
	Target  string
	Reason  Reason
	Details string
}

// Complete reports whether every required field of the draft is populated.
func (d Draft) Complete() bool {
	return d.Type.Valid() && d.Target != "" && d.Reason.Valid() && d.Details != ""
}

// Reporter identifies the user submitting a report.
type Reporter struct {
	ID       int64
	FullName string
}

// Completed is a finalized report handed to the dispatcher. The core does not
// retain it after fan-out; long-term storage belongs to the archive collaborator.
type Completed struct {
	ID          string
	Reporter    Reporter
	Draft       Draft
	SubmittedAt time.Time
}

var reportSeq atomic.Uint64

// NewReportID derives a report identifier from the submission time plus a
// process-monotonic counter so that two confirmations within the same second
// never collide.
func NewReportID(now time.Time) string {
	n := reportSeq.Add(1)
	return fmt.Sprintf("%s-%04d", now.UTC().Format("20060102150405"), n%10000)
}
