package recorder

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/itbasis/go-clock"

	appgames "github.com/preston-bernstein/courtside/internal/app/games"
	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/kvstore"
	"github.com/preston-bernstein/courtside/internal/testutil"
)

type fixture struct {
	store   *appgames.Store
	session *Session
	clock   *clock.Mock
	game    games.Game
}

func newFixture(t *testing.T, roster []string, starters []string) fixture {
	t.Helper()
	clk := testutil.NewClock(time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC))
	store := appgames.NewStore(kvstore.New(t.TempDir(), "", nil), clk)
	g, err := store.CreateGame("Rivals", "2024-01-15")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if err := store.SetGamePlayers(g.ID, roster, starters); err != nil {
		t.Fatalf("roster: %v", err)
	}
	s := NewSession(store, clk, nil)
	if err := s.SetCurrentGame(g.ID); err != nil {
		t.Fatalf("select game: %v", err)
	}
	return fixture{store: store, session: s, clock: clk, game: g}
}

func mustApply(t *testing.T) func(out Outcome, err error) Outcome {
	return func(out Outcome, err error) Outcome {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Applied() {
			t.Fatalf("expected applied outcome, got %s (%s)", out.Status, out.Reason)
		}
		return out
	}
}

func TestThreeStepInputAppendsOneLogAndResets(t *testing.T) {
	f := newFixture(t, []string{"p1"}, []string{"p1"})
	s := f.session

	if s.Step() != StepZone {
		t.Fatalf("expected zone step, got %s", s.Step())
	}
	s.SelectZone(4)
	if s.Step() != StepAction {
		t.Fatalf("expected action step, got %s", s.Step())
	}
	s.SelectAction(logs.ActionShot, logs.ResultMiss)
	if s.Step() != StepPlayer {
		t.Fatalf("expected player step, got %s", s.Step())
	}
	out := mustApply(t)(s.SelectPlayer("p1"))

	ls := f.store.GameLogs(f.game.ID)
	if len(ls) != 1 {
		t.Fatalf("expected exactly one log, got %d", len(ls))
	}
	got := ls[0]
	if got.ID != out.Log.ID || got.PlayerID != "p1" || got.Action != logs.ActionShot ||
		got.Result != logs.ResultMiss || got.Zone() != 4 || got.Quarter != games.Q1 {
		t.Fatalf("unexpected log %+v", got)
	}
	if got.Timestamp != f.clock.Now().UnixMilli() {
		t.Fatalf("expected clock timestamp, got %d", got.Timestamp)
	}
	if !reflect.DeepEqual(s.Input(), Input{}) || s.Step() != StepZone {
		t.Fatalf("expected input reset, got %+v step=%s", s.Input(), s.Step())
	}
	if out.AssistEligible() {
		t.Fatalf("a missed shot is not assist eligible")
	}
}

func TestFreeThrowClearsZone(t *testing.T) {
	f := newFixture(t, []string{"p1"}, []string{"p1"})
	s := f.session

	s.SelectZone(7)
	s.SelectAction(logs.ActionFT, logs.ResultMake)
	if s.Input().ZoneID != nil {
		t.Fatalf("expected zone cleared for free throw")
	}
	out := mustApply(t)(s.SelectPlayer("p1"))
	if out.Log.ZoneID != nil {
		t.Fatalf("expected null zone on free throw log, got %d", *out.Log.ZoneID)
	}
}

func TestFreeThrowNeedsNoZone(t *testing.T) {
	f := newFixture(t, []string{"p1"}, []string{"p1"})
	f.session.SelectAction(logs.ActionFT, logs.ResultMiss)
	mustApply(t)(f.session.SelectPlayer("p1"))
}

func TestSelectPlayerIgnoredWhenPreconditionsFail(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(s *Session)
		reason string
	}{
		{"no game", func(s *Session) { _ = s.SetCurrentGame("") }, ReasonNoGame},
		{"no action", func(s *Session) { s.SelectZone(2) }, ReasonNoAction},
		{"no zone for shot", func(s *Session) { s.SelectAction(logs.ActionShot, logs.ResultMake) }, ReasonNoZone},
		{"no zone for rebound", func(s *Session) { s.SelectAction(logs.ActionReb, logs.ResultOff) }, ReasonNoZone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, []string{"p1"}, nil)
			tc.setup(f.session)
			before := f.session.Input()

			out, err := f.session.SelectPlayer("p1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Status != Ignored || out.Reason != tc.reason {
				t.Fatalf("expected ignored with %q, got %s %q", tc.reason, out.Status, out.Reason)
			}
			if len(f.store.Logs()) != 0 {
				t.Fatalf("expected no log appended")
			}
			if !reflect.DeepEqual(f.session.Input(), before) {
				t.Fatalf("expected input untouched")
			}
		})
	}
}

func TestSelectActionOverwritesMidSequence(t *testing.T) {
	f := newFixture(t, []string{"p1"}, nil)
	s := f.session
	s.SelectZone(1)
	s.SelectAction(logs.ActionShot, logs.ResultMake)
	s.SelectAction(logs.ActionReb, logs.ResultDef)
	out := mustApply(t)(s.SelectPlayer("p1"))
	if out.Log.Action != logs.ActionReb || out.Log.Result != logs.ResultDef || out.Log.Zone() != 1 {
		t.Fatalf("expected latest action to win, got %+v", out.Log)
	}
}

func TestMadeShotAssistFlow(t *testing.T) {
	f := newFixture(t, []string{"shooter", "passer", "bench"}, []string{"shooter", "passer"})
	s := f.session

	s.SelectZone(5)
	s.SelectAction(logs.ActionShot, logs.ResultMake)
	shot := mustApply(t)(s.SelectPlayer("shooter"))
	if !shot.AssistEligible() {
		t.Fatalf("expected made shot to be assist eligible")
	}

	if got := s.AssistCandidates(*shot.Log); !reflect.DeepEqual(got, []string{"passer"}) {
		t.Fatalf("expected active teammates only, got %v", got)
	}

	f.clock.Add(time.Second)
	ast := mustApply(t)(s.AddAssist("passer", *shot.Log))
	l := ast.Log
	if l.Action != logs.ActionAssist || l.Result != logs.ResultAssist || l.ZoneID != nil {
		t.Fatalf("unexpected assist shape %+v", l)
	}
	if l.PlayerID != "passer" || *l.PasserPlayerID != "passer" || *l.ScorerPlayerID != "shooter" || *l.LinkedShotLogID != shot.Log.ID {
		t.Fatalf("unexpected assist links %+v", l)
	}
}

func TestAddAssistRejectsMissesAndSelfAssists(t *testing.T) {
	f := newFixture(t, []string{"a", "b"}, []string{"a", "b"})
	miss := testutil.ShotLog("m", f.game.ID, "a", 1, logs.ResultMiss, 1)
	made := testutil.ShotLog("s", f.game.ID, "a", 1, logs.ResultMake, 1)

	if out, _ := f.session.AddAssist("b", miss); out.Reason != ReasonNotMadeShot {
		t.Fatalf("expected %q, got %q", ReasonNotMadeShot, out.Reason)
	}
	if out, _ := f.session.AddAssist("a", made); out.Reason != ReasonSelfAssist {
		t.Fatalf("expected %q, got %q", ReasonSelfAssist, out.Reason)
	}
	if len(f.store.Logs()) != 0 {
		t.Fatalf("expected nothing recorded")
	}
}

func TestUndoMadeShotRemovesItsAssist(t *testing.T) {
	f := newFixture(t, []string{"a", "b"}, []string{"a", "b"})
	s := f.session

	s.SelectZone(2)
	s.SelectAction(logs.ActionShot, logs.ResultMake)
	shot := mustApply(t)(s.SelectPlayer("a"))
	mustApply(t)(s.AddAssist("b", *shot.Log))

	// The assist is the latest row, so the first undo removes it alone.
	first := mustApply(t)(s.Undo())
	if len(first.Removed) != 1 {
		t.Fatalf("expected only the assist removed, got %v", first.Removed)
	}
	mustApply(t)(s.AddAssist("b", *shot.Log))

	s.SelectZone(3)
	s.SelectAction(logs.ActionShot, logs.ResultMake)
	second := mustApply(t)(s.SelectPlayer("b"))
	mustApply(t)(s.AddAssist("a", *second.Log))

	out := mustApply(t)(s.DeleteLog(shot.Log.ID))
	if len(out.Removed) != 2 || out.Removed[0] != shot.Log.ID {
		t.Fatalf("expected shot plus its assist removed, got %v", out.Removed)
	}
	remaining := f.store.GameLogs(f.game.ID)
	if len(remaining) != 2 {
		t.Fatalf("expected second shot and its assist to remain, got %d logs", len(remaining))
	}
	for _, l := range remaining {
		if l.AssistsShot(shot.Log.ID) {
			t.Fatalf("assist of deleted shot survived: %+v", l)
		}
	}
}

func TestUndoResetsInputAndReportsEmpty(t *testing.T) {
	f := newFixture(t, []string{"a"}, []string{"a"})
	s := f.session

	out, err := s.Undo()
	if err != nil || out.Reason != ReasonNothingToUndo {
		t.Fatalf("expected nothing to undo, got %+v (%v)", out, err)
	}

	s.SelectAction(logs.ActionFT, logs.ResultMake)
	mustApply(t)(s.SelectPlayer("a"))
	s.SelectZone(9)
	mustApply(t)(s.Undo())
	if s.Step() != StepZone || s.Input().ZoneID != nil {
		t.Fatalf("expected undo to reset input")
	}
}

func TestDeleteAndReassignScopedToCurrentGame(t *testing.T) {
	f := newFixture(t, []string{"a", "b"}, nil)
	other, _ := f.store.CreateGame("Others", "2024-01-16")
	if err := f.store.AppendLog(testutil.ShotLog("foreign", other.ID, "a", 1, logs.ResultMake, 1)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if out, _ := f.session.DeleteLog("foreign"); out.Reason != ReasonUnknownLog {
		t.Fatalf("expected foreign log ignored, got %+v", out)
	}

	f.session.SelectAction(logs.ActionFT, logs.ResultMiss)
	ft := mustApply(t)(f.session.SelectPlayer("a"))
	out := mustApply(t)(f.session.ReassignLog(ft.Log.ID, "b"))
	if out.Log.PlayerID != "b" {
		t.Fatalf("expected reassigned player, got %+v", out.Log)
	}
}

func TestQuarterControl(t *testing.T) {
	f := newFixture(t, []string{"a"}, nil)
	s := f.session

	for want := games.Q2; want <= games.OT; want++ {
		mustApply(t)(s.NextQuarter(), nil)
		if s.Quarter() != want {
			t.Fatalf("expected %s, got %s", want, s.Quarter())
		}
	}
	if out := s.NextQuarter(); out.Reason != ReasonLastQuarter || s.Quarter() != games.OT {
		t.Fatalf("expected to stay in OT, got %+v %s", out, s.Quarter())
	}
	if err := s.SetQuarter(games.Quarter(0)); !errors.Is(err, games.ErrInvalidQuarter) {
		t.Fatalf("expected ErrInvalidQuarter, got %v", err)
	}
	if err := s.SetQuarter(games.Q2); err != nil || s.Quarter() != games.Q2 {
		t.Fatalf("expected Q2, got %s (%v)", s.Quarter(), err)
	}

	if err := s.SetCurrentGame(f.game.ID); err != nil || s.Quarter() != games.Q1 {
		t.Fatalf("expected selecting a game to reset to Q1")
	}
	if err := s.SetCurrentGame("missing"); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}

func TestConfirmLineup(t *testing.T) {
	roster := []string{"a", "b", "c", "d", "e", "f"}
	f := newFixture(t, roster, []string{"a", "b", "c", "d", "e"})
	s := f.session

	out, err := s.ConfirmLineup(games.Q2, roster)
	if err != nil || out.Reason != ReasonTooManyPlayers {
		t.Fatalf("expected six players rejected, got %+v (%v)", out, err)
	}
	if out, _ := s.ConfirmLineup(games.Q2, []string{"a", "zz"}); out.Reason != ReasonNotOnRoster {
		t.Fatalf("expected unknown player rejected, got %+v", out)
	}
	if len(f.store.ActivePlayers(f.game.ID, games.Q2)) != 0 {
		t.Fatalf("rejected lineups must not change flags")
	}

	mustApply(t)(s.ConfirmLineup(games.Q2, []string{"b", "c", "d", "e", "f"}))
	if got := f.store.ActivePlayers(f.game.ID, games.Q2); !reflect.DeepEqual(got, []string{"b", "c", "d", "e", "f"}) {
		t.Fatalf("unexpected Q2 lineup %v", got)
	}
	if s.Quarter() != games.Q2 {
		t.Fatalf("expected session moved to Q2")
	}

	// Substitution within the quarter flips only the changed players.
	mustApply(t)(s.ConfirmLineup(games.Q2, []string{"a", "c", "d", "e", "f"}))
	if got := f.store.ActivePlayers(f.game.ID, games.Q2); !reflect.DeepEqual(got, []string{"a", "c", "d", "e", "f"}) {
		t.Fatalf("unexpected lineup after substitution %v", got)
	}
	if got := f.store.ActivePlayers(f.game.ID, games.Q1); len(got) != 5 {
		t.Fatalf("expected Q1 untouched, got %v", got)
	}
}

type failingStore struct {
	GameStore
	err error
}

func (f failingStore) Game(string) (games.Game, bool) { return games.Game{ID: "g"}, true }
func (f failingStore) AppendLog(logs.Log) error        { return f.err }

func TestSelectPlayerSurfacesStorageErrors(t *testing.T) {
	boom := errors.New("disk full")
	s := NewSession(failingStore{err: boom}, nil, nil)
	if err := s.SetCurrentGame("g"); err != nil {
		t.Fatalf("select: %v", err)
	}
	s.SelectAction(logs.ActionFT, logs.ResultMake)
	if _, err := s.SelectPlayer("p"); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if s.Step() != StepPlayer {
		t.Fatalf("expected input kept after failed write")
	}
}
