package games

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidQuarter is returned for a period outside 1-5.
var ErrInvalidQuarter = errors.New("invalid quarter")

// Quarter is a game period: 1-4, or 5 for overtime.
type Quarter int

const (
	Q1 Quarter = iota + 1
	Q2
	Q3
	Q4
	OT

	// QuarterCount is the number of periods tracked per game.
	QuarterCount = 5
)

// Quarters lists every period in play order.
var Quarters = [QuarterCount]Quarter{Q1, Q2, Q3, Q4, OT}

// Index maps the quarter onto a zero-based slot of GamePlayer.Active.
func (q Quarter) Index() (int, bool) {
	switch q {
	case Q1:
		return 0, true
	case Q2:
		return 1, true
	case Q3:
		return 2, true
	case Q4:
		return 3, true
	case OT:
		return 4, true
	default:
		return 0, false
	}
}

// Valid reports whether q is one of the five tracked periods.
func (q Quarter) Valid() bool {
	_, ok := q.Index()
	return ok
}

func (q Quarter) String() string {
	if q == OT {
		return "OT"
	}
	return fmt.Sprintf("Q%d", int(q))
}

// ParseQuarter converts a 1-5 integer into a Quarter.
func ParseQuarter(n int) (Quarter, error) {
	q := Quarter(n)
	if !q.Valid() {
		return 0, fmt.Errorf("%w: must be between 1 and %d, got %d", ErrInvalidQuarter, QuarterCount, n)
	}
	return q, nil
}

// Game is one match against an opponent. CreatedAt is epoch milliseconds.
type Game struct {
	ID            string `json:"id"`
	OpponentName  string `json:"opponentName"`
	GameDate      string `json:"gameDate"`
	OpponentScore int    `json:"opponentScore"`
	CreatedAt     int64  `json:"createdAt"`
}

// GamePlayer records roster membership and the per-quarter lineup of a player in a game.
type GamePlayer struct {
	GameID   string
	PlayerID string
	Active   [QuarterCount]bool
}

// IsActive reports whether the player is on the floor for quarter q.
func (gp GamePlayer) IsActive(q Quarter) bool {
	idx, ok := q.Index()
	if !ok {
		return false
	}
	return gp.Active[idx]
}

// WithActive returns a copy of gp with quarter q set to active.
func (gp GamePlayer) WithActive(q Quarter, active bool) GamePlayer {
	if idx, ok := q.Index(); ok {
		gp.Active[idx] = active
	}
	return gp
}

type gamePlayerWire struct {
	GameID     string `json:"gameId"`
	PlayerID   string `json:"playerId"`
	IsActiveQ1 bool   `json:"isActiveQ1"`
	IsActiveQ2 bool   `json:"isActiveQ2"`
	IsActiveQ3 bool   `json:"isActiveQ3"`
	IsActiveQ4 bool   `json:"isActiveQ4"`
	IsActiveQ5 bool   `json:"isActiveQ5"`
}

// MarshalJSON keeps the isActiveQ1..isActiveQ5 wire shape.
func (gp GamePlayer) MarshalJSON() ([]byte, error) {
	return json.Marshal(gamePlayerWire{
		GameID:     gp.GameID,
		PlayerID:   gp.PlayerID,
		IsActiveQ1: gp.Active[0],
		IsActiveQ2: gp.Active[1],
		IsActiveQ3: gp.Active[2],
		IsActiveQ4: gp.Active[3],
		IsActiveQ5: gp.Active[4],
	})
}

// UnmarshalJSON reads the isActiveQ1..isActiveQ5 wire shape.
func (gp *GamePlayer) UnmarshalJSON(data []byte) error {
	var w gamePlayerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	gp.GameID = w.GameID
	gp.PlayerID = w.PlayerID
	gp.Active = [QuarterCount]bool{w.IsActiveQ1, w.IsActiveQ2, w.IsActiveQ3, w.IsActiveQ4, w.IsActiveQ5}
	return nil
}
