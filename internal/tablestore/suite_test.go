package tablestore

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
	"github.com/preston-bernstein/courtside/internal/testutil"
)

// runStoreSuite exercises behaviour every backend must share.
func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	t.Run("players ordered by number and replaced by id", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		if err := s.UpsertPlayers(ctx, []players.Player{
			testutil.SamplePlayer("b", 23, "Jordan"),
			testutil.SamplePlayer("a", 4, "Pat"),
		}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if err := s.UpsertPlayers(ctx, []players.Player{testutil.SamplePlayer("b", 1, "Jordan R")}); err != nil {
			t.Fatalf("upsert replace: %v", err)
		}
		got, err := s.ListPlayers(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0].ID != "b" || got[0].Number != 1 || got[0].Name != "Jordan R" || got[1].ID != "a" {
			t.Fatalf("unexpected players %+v", got)
		}
		if got[1] != testutil.SamplePlayer("a", 4, "Pat") {
			t.Fatalf("expected round trip of all fields, got %+v", got[1])
		}

		if err := s.DeletePlayer(ctx, "a"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if got, _ := s.ListPlayers(ctx); len(got) != 1 {
			t.Fatalf("expected one player after delete, got %d", len(got))
		}
	})

	t.Run("games newest first", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		older := testutil.SampleGame("old")
		older.CreatedAt = 100
		newer := testutil.SampleGame("new")
		newer.CreatedAt = 200
		newer.OpponentScore = 61
		if err := s.UpsertGames(ctx, []games.Game{older, newer}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		got, err := s.ListGames(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0] != newer || got[1] != older {
			t.Fatalf("unexpected games %+v", got)
		}
		if err := s.DeleteGame(ctx, "old"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if got, _ := s.ListGames(ctx); len(got) != 1 || got[0].ID != "new" {
			t.Fatalf("unexpected games after delete %+v", got)
		}
	})

	t.Run("game players keyed by game and player", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		rows := []games.GamePlayer{
			testutil.SampleGamePlayer("g1", "p1", games.Q1, games.OT),
			testutil.SampleGamePlayer("g1", "p2"),
			testutil.SampleGamePlayer("g2", "p1", games.Q3),
		}
		if err := s.UpsertGamePlayers(ctx, rows); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if err := s.UpsertGamePlayers(ctx, []games.GamePlayer{testutil.SampleGamePlayer("g1", "p2", games.Q2)}); err != nil {
			t.Fatalf("upsert replace: %v", err)
		}

		g1, err := s.ListGamePlayers(ctx, "g1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		want := []games.GamePlayer{
			testutil.SampleGamePlayer("g1", "p1", games.Q1, games.OT),
			testutil.SampleGamePlayer("g1", "p2", games.Q2),
		}
		if !reflect.DeepEqual(g1, want) {
			t.Fatalf("expected %+v, got %+v", want, g1)
		}
		if all, _ := s.ListGamePlayers(ctx, ""); len(all) != 3 {
			t.Fatalf("expected all rows without filter, got %d", len(all))
		}

		if err := s.DeleteGamePlayers(ctx, "g1"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if all, _ := s.ListGamePlayers(ctx, ""); len(all) != 1 || all[0].GameID != "g2" {
			t.Fatalf("expected only g2 rows left, got %+v", all)
		}
	})

	t.Run("logs by timestamp with nullable fields", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		shot := testutil.ShotLog("shot", "g1", "p1", 5, logs.ResultMake, 20)
		ft := testutil.FreeThrowLog("ft", "g1", "p2", logs.ResultMiss, 10)
		ast := logs.NewAssist("ast", "g1", games.Q2, "p2", "p1", "shot", 30)
		other := testutil.FreeThrowLog("other", "g2", "p1", logs.ResultMake, 5)

		if err := s.UpsertLogs(ctx, []logs.Log{shot, ft, ast, other}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		got, err := s.ListLogs(ctx, "g1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if !reflect.DeepEqual(got, []logs.Log{ft, shot, ast}) {
			t.Fatalf("unexpected logs %+v", got)
		}
		if all, _ := s.ListLogs(ctx, ""); len(all) != 4 || all[0].ID != "other" {
			t.Fatalf("expected every log ordered by time, got %+v", all)
		}

		if err := s.DeleteLog(ctx, "ft"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := s.DeleteGameLogs(ctx, "g2"); err != nil {
			t.Fatalf("delete game logs: %v", err)
		}
		if all, _ := s.ListLogs(ctx, ""); len(all) != 2 {
			t.Fatalf("expected two logs left, got %d", len(all))
		}
	})

	t.Run("empty tables list as empty slices", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		p, _ := s.ListPlayers(ctx)
		g, _ := s.ListGames(ctx)
		gp, _ := s.ListGamePlayers(ctx, "")
		l, _ := s.ListLogs(ctx, "missing")
		if p == nil || g == nil || gp == nil || l == nil {
			t.Fatalf("expected non-nil empty slices")
		}
	})

	t.Run("invalid records reject the whole batch", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		err := s.UpsertPlayers(ctx, []players.Player{testutil.SamplePlayer("ok", 1, "A"), {Name: "no id"}})
		if !errors.Is(err, ErrInvalidRecord) {
			t.Fatalf("expected ErrInvalidRecord, got %v", err)
		}
		if got, _ := s.ListPlayers(ctx); len(got) != 0 {
			t.Fatalf("expected nothing written, got %+v", got)
		}
		if err := s.UpsertGamePlayers(ctx, []games.GamePlayer{{GameID: "g1"}}); !errors.Is(err, ErrInvalidRecord) {
			t.Fatalf("expected ErrInvalidRecord for game player, got %v", err)
		}
		if err := s.UpsertLogs(ctx, []logs.Log{{ID: "x"}}); !errors.Is(err, ErrInvalidRecord) {
			t.Fatalf("expected ErrInvalidRecord for log, got %v", err)
		}
		if err := s.UpsertGames(ctx, []games.Game{{}}); !errors.Is(err, ErrInvalidRecord) {
			t.Fatalf("expected ErrInvalidRecord for game, got %v", err)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := open(t).Ping(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}
