package recorder

import "github.com/preston-bernstein/courtside/internal/domain/logs"

// Status tells whether an operation changed anything.
type Status int

const (
	Applied Status = iota + 1
	Ignored
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Reasons reported with an Ignored outcome.
const (
	ReasonNoGame         = "no game selected"
	ReasonNoAction       = "action and result not selected"
	ReasonNoZone         = "zone not selected"
	ReasonNothingToUndo  = "no logs to undo"
	ReasonLastQuarter    = "already in the last period"
	ReasonTooManyPlayers = "a lineup holds at most 5 players"
	ReasonNotOnRoster    = "player not on the game roster"
	ReasonNotMadeShot    = "assists link to made shots only"
	ReasonSelfAssist     = "the scorer cannot assist their own shot"
	ReasonUnknownLog     = "log not found"
)

// Outcome is the typed result of a session operation. An Ignored outcome
// means preconditions failed and nothing was changed.
type Outcome struct {
	Status  Status
	Reason  string
	Log     *logs.Log
	Removed []string
}

func applied(l *logs.Log, removed ...string) Outcome {
	return Outcome{Status: Applied, Log: l, Removed: removed}
}

func ignored(reason string) Outcome {
	return Outcome{Status: Ignored, Reason: reason}
}

// Applied reports whether the operation took effect.
func (o Outcome) Applied() bool {
	return o.Status == Applied
}

// AssistEligible reports whether the committed log is a made shot that may be credited with an assist.
func (o Outcome) AssistEligible() bool {
	return o.Applied() && o.Log != nil && o.Log.IsMadeShot()
}
