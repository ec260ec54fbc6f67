package tablestore

import (
	"context"
	"time"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
	"github.com/preston-bernstein/courtside/internal/metrics"
)

// Resource names used in metrics and logs.
const (
	ResourcePlayers     = "players"
	ResourceGames       = "games"
	ResourceGamePlayers = "game_players"
	ResourceLogs        = "logs"
)

const (
	opList   = "list"
	opUpsert = "upsert"
	opDelete = "delete"
)

type instrumented struct {
	Store
	rec *metrics.Recorder
}

// WithMetrics records every list, upsert and delete on rec. A nil recorder returns s unchanged.
func WithMetrics(s Store, rec *metrics.Recorder) Store {
	if rec == nil {
		return s
	}
	return &instrumented{Store: s, rec: rec}
}

func observe[T any](rec *metrics.Recorder, resource string, fn func() ([]T, error)) ([]T, error) {
	start := time.Now()
	out, err := fn()
	rec.RecordStoreBatch(resource, opList, len(out), time.Since(start), err)
	return out, err
}

func (s *instrumented) record(resource, op string, n int, fn func() error) error {
	start := time.Now()
	err := fn()
	s.rec.RecordStoreBatch(resource, op, n, time.Since(start), err)
	return err
}

func (s *instrumented) ListPlayers(ctx context.Context) ([]players.Player, error) {
	return observe(s.rec, ResourcePlayers, func() ([]players.Player, error) { return s.Store.ListPlayers(ctx) })
}

func (s *instrumented) UpsertPlayers(ctx context.Context, in []players.Player) error {
	return s.record(ResourcePlayers, opUpsert, len(in), func() error { return s.Store.UpsertPlayers(ctx, in) })
}

func (s *instrumented) DeletePlayer(ctx context.Context, id string) error {
	return s.record(ResourcePlayers, opDelete, 1, func() error { return s.Store.DeletePlayer(ctx, id) })
}

func (s *instrumented) ListGames(ctx context.Context) ([]games.Game, error) {
	return observe(s.rec, ResourceGames, func() ([]games.Game, error) { return s.Store.ListGames(ctx) })
}

func (s *instrumented) UpsertGames(ctx context.Context, in []games.Game) error {
	return s.record(ResourceGames, opUpsert, len(in), func() error { return s.Store.UpsertGames(ctx, in) })
}

func (s *instrumented) DeleteGame(ctx context.Context, id string) error {
	return s.record(ResourceGames, opDelete, 1, func() error { return s.Store.DeleteGame(ctx, id) })
}

func (s *instrumented) ListGamePlayers(ctx context.Context, gameID string) ([]games.GamePlayer, error) {
	return observe(s.rec, ResourceGamePlayers, func() ([]games.GamePlayer, error) { return s.Store.ListGamePlayers(ctx, gameID) })
}

func (s *instrumented) UpsertGamePlayers(ctx context.Context, in []games.GamePlayer) error {
	return s.record(ResourceGamePlayers, opUpsert, len(in), func() error { return s.Store.UpsertGamePlayers(ctx, in) })
}

func (s *instrumented) DeleteGamePlayers(ctx context.Context, gameID string) error {
	return s.record(ResourceGamePlayers, opDelete, 0, func() error { return s.Store.DeleteGamePlayers(ctx, gameID) })
}

func (s *instrumented) ListLogs(ctx context.Context, gameID string) ([]logs.Log, error) {
	return observe(s.rec, ResourceLogs, func() ([]logs.Log, error) { return s.Store.ListLogs(ctx, gameID) })
}

func (s *instrumented) UpsertLogs(ctx context.Context, in []logs.Log) error {
	return s.record(ResourceLogs, opUpsert, len(in), func() error { return s.Store.UpsertLogs(ctx, in) })
}

func (s *instrumented) DeleteLog(ctx context.Context, id string) error {
	return s.record(ResourceLogs, opDelete, 1, func() error { return s.Store.DeleteLog(ctx, id) })
}

func (s *instrumented) DeleteGameLogs(ctx context.Context, gameID string) error {
	return s.record(ResourceLogs, opDelete, 0, func() error { return s.Store.DeleteGameLogs(ctx, gameID) })
}
