package domain

import "strings"

// Reason is the source that most recently assigned a bucket. It
// determines what later writers may overwrite per the precedence
// matrix in §4.2.
type Reason int

const (
	ReasonDefault Reason = iota
	ReasonUsage
	ReasonTimeout
	ReasonPredicted
	ReasonForced
)

// String returns the reason's canonical name.
func (r Reason) String() string {
	switch r {
	case ReasonDefault:
		return "default"
	case ReasonUsage:
		return "usage"
	case ReasonTimeout:
		return "timeout"
	case ReasonPredicted:
		return "predicted"
	case ReasonForced:
		return "forced"
	default:
		return "unknown"
	}
}

// Tagged pairs a reason with an opaque diagnostic subtag, e.g.
// "predicted:cts". Subtags never participate in precedence — they
// exist for logging only.
type Tagged struct {
	Reason Reason
	Subtag string
}

// ParseReason splits a "reason" or "reason:subtag" external string into
// its Reason and optional subtag. Unknown reason names are rejected by
// the caller via ok=false; callers must reject the whole bucket write,
// per §7 ("Invalid bucket value... rejected with an explicit error").
func ParseReason(s string) (Tagged, bool) {
	name, subtag, _ := strings.Cut(s, ":")
	switch strings.ToLower(name) {
	case "default":
		return Tagged{Reason: ReasonDefault, Subtag: subtag}, true
	case "usage":
		return Tagged{Reason: ReasonUsage, Subtag: subtag}, true
	case "timeout":
		return Tagged{Reason: ReasonTimeout, Subtag: subtag}, true
	case "predicted":
		return Tagged{Reason: ReasonPredicted, Subtag: subtag}, true
	case "forced":
		return Tagged{Reason: ReasonForced, Subtag: subtag}, true
	default:
		return Tagged{}, false
	}
}

// String renders "reason" or "reason:subtag" for logging.
func (t Tagged) String() string {
	if t.Subtag == "" {
		return t.Reason.String()
	}
	return t.Reason.String() + ":" + t.Subtag
}
