package logs

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/courtside/internal/domain/games"
)

// Action is the kind of event a log records.
type Action string

const (
	ActionShot   Action = "SHOT"
	ActionFT     Action = "FT"
	ActionReb    Action = "REB"
	ActionFoul   Action = "FOUL"
	ActionAssist Action = "AST"
)

// Result values. Fouls carry a free-form result string.
const (
	ResultMake   = "MAKE"
	ResultMiss   = "MISS"
	ResultOff    = "OFF"
	ResultDef    = "DEF"
	ResultAssist = "AST"
)

const (
	MinZone = 1
	MaxZone = 9
)

// ParseAction normalizes user input into an Action.
func ParseAction(raw string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(raw)))
	switch a {
	case ActionShot, ActionFT, ActionReb, ActionFoul, ActionAssist:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q", raw)
	}
}

// Log is one recorded event. Timestamp is epoch milliseconds and is the only ordering key.
// Passer, scorer and linked shot are set on AST rows only.
type Log struct {
	ID              string        `json:"id"`
	GameID          string        `json:"gameId"`
	Quarter         games.Quarter `json:"quarter"`
	PlayerID        string        `json:"playerId"`
	Action          Action        `json:"action"`
	ZoneID          *int          `json:"zoneId"`
	Result          string        `json:"result"`
	Timestamp       int64         `json:"timestamp"`
	PasserPlayerID  *string       `json:"passerPlayerId,omitempty"`
	ScorerPlayerID  *string       `json:"scorerPlayerId,omitempty"`
	LinkedShotLogID *string       `json:"linkedShotLogId,omitempty"`
}

// IsMadeShot reports a SHOT with result MAKE.
func (l Log) IsMadeShot() bool {
	return l.Action == ActionShot && l.Result == ResultMake
}

// AssistsShot reports whether l is an AST row linked to shotID.
func (l Log) AssistsShot(shotID string) bool {
	return l.Action == ActionAssist && l.LinkedShotLogID != nil && *l.LinkedShotLogID == shotID
}

// Zone returns the zone id, or 0 when the log has no court location.
func (l Log) Zone() int {
	if l.ZoneID == nil {
		return 0
	}
	return *l.ZoneID
}

// Points is what the log adds to the team score.
func (l Log) Points() int {
	switch {
	case l.Action == ActionShot && l.Result == ResultMake:
		return 2
	case l.Action == ActionFT && l.Result == ResultMake:
		return 1
	default:
		return 0
	}
}

// NewAssist builds the AST row linking passer to a made shot.
func NewAssist(id, gameID string, q games.Quarter, passer, scorer, shotID string, ts int64) Log {
	return Log{
		ID:              id,
		GameID:          gameID,
		Quarter:         q,
		PlayerID:        passer,
		Action:          ActionAssist,
		ZoneID:          nil,
		Result:          ResultAssist,
		Timestamp:       ts,
		PasserPlayerID:  ptr(passer),
		ScorerPlayerID:  ptr(scorer),
		LinkedShotLogID: ptr(shotID),
	}
}

// Patch carries optional field updates for a stored log. Fields left nil are kept.
type Patch struct {
	PlayerID *string
	Quarter  *games.Quarter
	ZoneID   *int
	Result   *string
}

// Apply returns a copy of l with the patch fields applied.
func (p Patch) Apply(l Log) Log {
	if p.PlayerID != nil {
		l.PlayerID = *p.PlayerID
	}
	if p.Quarter != nil {
		l.Quarter = *p.Quarter
	}
	if p.ZoneID != nil {
		z := *p.ZoneID
		l.ZoneID = &z
	}
	if p.Result != nil {
		l.Result = *p.Result
	}
	return l
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

func ptr(s string) *string { return &s }
