package recorder

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/logging"
	"github.com/preston-bernstein/courtside/internal/timeutil"
)

// MaxLineup is the number of players on the floor per quarter.
const MaxLineup = 5

// ErrUnknownGame is returned when selecting a game the store does not hold.
var ErrUnknownGame = errors.New("unknown game")

// Step is the position in the zone, action, player input sequence.
type Step string

const (
	StepZone   Step = "zone"
	StepAction Step = "action"
	StepPlayer Step = "player"
)

// Input holds the selections made so far. It is never persisted.
type Input struct {
	ZoneID   *int
	Action   logs.Action
	Result   string
	PlayerID string
}

// GameStore is the part of the game store a session drives.
type GameStore interface {
	Game(id string) (games.Game, bool)
	AppendLog(l logs.Log) error
	Log(id string) (logs.Log, bool)
	DeleteLog(id string) ([]string, error)
	UndoLast(gameID string) ([]string, error)
	UpdateLog(id string, patch logs.Patch) (logs.Log, error)
	ActivePlayers(gameID string, q games.Quarter) []string
	GamePlayerIDs(gameID string) []string
	TogglePlayerActive(gameID, playerID string, q games.Quarter) error
}

// Session is the recording state of one game: the current quarter and the
// three-step input that turns zone, action and player into a log.
type Session struct {
	store  GameStore
	clock  clock.Clock
	newID  func() string
	logger *slog.Logger

	gameID  string
	quarter games.Quarter
	input   Input
	step    Step
}

// NewSession constructs a session with no game selected.
func NewSession(store GameStore, clk clock.Clock, logger *slog.Logger) *Session {
	if clk == nil {
		clk = clock.New()
	}
	return &Session{
		store:   store,
		clock:   clk,
		newID:   uuid.NewString,
		logger:  logger,
		quarter: games.Q1,
		step:    StepZone,
	}
}

// SetCurrentGame selects the game to record and resets quarter and input.
// An empty id clears the selection.
func (s *Session) SetCurrentGame(id string) error {
	if id != "" {
		if _, ok := s.store.Game(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownGame, id)
		}
	}
	s.gameID = id
	s.quarter = games.Q1
	s.ResetInput()
	return nil
}

// CurrentGame returns the selected game id, or "".
func (s *Session) CurrentGame() string { return s.gameID }

// Quarter returns the quarter new logs are recorded in.
func (s *Session) Quarter() games.Quarter { return s.quarter }

// Input returns a copy of the pending selections.
func (s *Session) Input() Input {
	in := s.input
	if in.ZoneID != nil {
		z := *in.ZoneID
		in.ZoneID = &z
	}
	return in
}

// Step returns the next expected selection.
func (s *Session) Step() Step { return s.step }

// SelectZone records the court zone. The range is not checked here.
func (s *Session) SelectZone(zoneID int) {
	s.input.ZoneID = &zoneID
	s.step = StepAction
}

// SelectAction records action and result, overwriting earlier choices.
// Free throws never carry a zone.
func (s *Session) SelectAction(action logs.Action, result string) {
	s.input.Action = action
	s.input.Result = result
	if action == logs.ActionFT {
		s.input.ZoneID = nil
	}
	s.step = StepPlayer
}

// SelectPlayer commits the pending input as a log attributed to playerID.
// Missing selections yield an Ignored outcome and leave the input as it was.
func (s *Session) SelectPlayer(playerID string) (Outcome, error) {
	if s.gameID == "" {
		return ignored(ReasonNoGame), nil
	}
	if s.input.Action == "" || s.input.Result == "" {
		return ignored(ReasonNoAction), nil
	}
	if s.input.Action != logs.ActionFT && s.input.ZoneID == nil {
		return ignored(ReasonNoZone), nil
	}

	l := logs.Log{
		ID:        s.newID(),
		GameID:    s.gameID,
		Quarter:   s.quarter,
		PlayerID:  playerID,
		Action:    s.input.Action,
		ZoneID:    s.input.ZoneID,
		Result:    s.input.Result,
		Timestamp: timeutil.Millis(s.clock.Now()),
	}
	if err := s.store.AppendLog(l); err != nil {
		return Outcome{}, err
	}
	s.ResetInput()
	logging.Info(s.logger, "log recorded",
		logging.FieldGameID, l.GameID,
		logging.FieldLogID, l.ID,
		"action", string(l.Action),
		"result", l.Result,
	)
	return applied(&l), nil
}

// AssistCandidates lists the players on the floor this quarter who could have passed to the scorer of shot.
func (s *Session) AssistCandidates(shot logs.Log) []string {
	if s.gameID == "" {
		return []string{}
	}
	active := s.store.ActivePlayers(s.gameID, s.quarter)
	out := make([]string, 0, len(active))
	for _, pid := range active {
		if pid != shot.PlayerID {
			out = append(out, pid)
		}
	}
	return out
}

// AddAssist credits passer with an assist on the made shot.
func (s *Session) AddAssist(passerID string, shot logs.Log) (Outcome, error) {
	if s.gameID == "" {
		return ignored(ReasonNoGame), nil
	}
	if !shot.IsMadeShot() {
		return ignored(ReasonNotMadeShot), nil
	}
	if passerID == shot.PlayerID {
		return ignored(ReasonSelfAssist), nil
	}
	l := logs.NewAssist(s.newID(), s.gameID, s.quarter, passerID, shot.PlayerID, shot.ID, timeutil.Millis(s.clock.Now()))
	if err := s.store.AppendLog(l); err != nil {
		return Outcome{}, err
	}
	return applied(&l), nil
}

// ResetInput discards every pending selection.
func (s *Session) ResetInput() {
	s.input = Input{}
	s.step = StepZone
}

// Undo removes the latest log of the current game, with its assists when it was a made shot.
func (s *Session) Undo() (Outcome, error) {
	if s.gameID == "" {
		return ignored(ReasonNoGame), nil
	}
	removed, err := s.store.UndoLast(s.gameID)
	if err != nil {
		return Outcome{}, err
	}
	if len(removed) == 0 {
		return ignored(ReasonNothingToUndo), nil
	}
	s.ResetInput()
	return applied(nil, removed...), nil
}

// DeleteLog removes a log of the current game, with its assists when it was a made shot.
func (s *Session) DeleteLog(id string) (Outcome, error) {
	if s.gameID == "" {
		return ignored(ReasonNoGame), nil
	}
	if l, ok := s.store.Log(id); !ok || l.GameID != s.gameID {
		return ignored(ReasonUnknownLog), nil
	}
	removed, err := s.store.DeleteLog(id)
	if err != nil {
		return Outcome{}, err
	}
	return applied(nil, removed...), nil
}

// ReassignLog moves a log of the current game to another player.
// Assist rows keep their passer and scorer fields.
func (s *Session) ReassignLog(id, playerID string) (Outcome, error) {
	if s.gameID == "" {
		return ignored(ReasonNoGame), nil
	}
	if l, ok := s.store.Log(id); !ok || l.GameID != s.gameID {
		return ignored(ReasonUnknownLog), nil
	}
	updated, err := s.store.UpdateLog(id, logs.Patch{PlayerID: &playerID})
	if err != nil {
		return Outcome{}, err
	}
	return applied(&updated), nil
}

// SetQuarter moves recording to quarter q.
func (s *Session) SetQuarter(q games.Quarter) error {
	if !q.Valid() {
		return fmt.Errorf("set quarter: %w", games.ErrInvalidQuarter)
	}
	s.quarter = q
	return nil
}

// NextQuarter advances one period. Overtime is the last one.
func (s *Session) NextQuarter() Outcome {
	if s.quarter >= games.OT {
		return ignored(ReasonLastQuarter)
	}
	s.quarter++
	return applied(nil)
}

// ConfirmLineup makes exactly ids active in quarter q and switches to q.
// Roster players outside ids are deactivated for q.
func (s *Session) ConfirmLineup(q games.Quarter, ids []string) (Outcome, error) {
	if s.gameID == "" {
		return ignored(ReasonNoGame), nil
	}
	if !q.Valid() {
		return Outcome{}, fmt.Errorf("confirm lineup: %w", games.ErrInvalidQuarter)
	}
	if len(ids) > MaxLineup {
		return ignored(ReasonTooManyPlayers), nil
	}
	roster := s.store.GamePlayerIDs(s.gameID)
	for _, id := range ids {
		if !slices.Contains(roster, id) {
			return ignored(ReasonNotOnRoster), nil
		}
	}

	active := s.store.ActivePlayers(s.gameID, q)
	for _, pid := range roster {
		want := slices.Contains(ids, pid)
		if want == slices.Contains(active, pid) {
			continue
		}
		if err := s.store.TogglePlayerActive(s.gameID, pid, q); err != nil {
			return Outcome{}, err
		}
	}
	s.quarter = q
	return applied(nil), nil
}
