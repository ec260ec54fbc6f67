// Package tablestore is the relational backing of the remote API: four tables
// mirroring the recorder's collections, upserted in batches.
package tablestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
)

// Backend names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	// ErrInvalidRecord marks a batch holding a record without its key fields.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrUnknownDriver is returned by Open for an unsupported backend name.
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Store persists players, games, game players and logs.
// Upserts replace whole rows by key and apply a batch atomically.
type Store interface {
	ListPlayers(ctx context.Context) ([]players.Player, error)
	UpsertPlayers(ctx context.Context, in []players.Player) error
	DeletePlayer(ctx context.Context, id string) error

	ListGames(ctx context.Context) ([]games.Game, error)
	UpsertGames(ctx context.Context, in []games.Game) error
	DeleteGame(ctx context.Context, id string) error

	ListGamePlayers(ctx context.Context, gameID string) ([]games.GamePlayer, error)
	UpsertGamePlayers(ctx context.Context, in []games.GamePlayer) error
	DeleteGamePlayers(ctx context.Context, gameID string) error

	ListLogs(ctx context.Context, gameID string) ([]logs.Log, error)
	UpsertLogs(ctx context.Context, in []logs.Log) error
	DeleteLog(ctx context.Context, id string) error
	DeleteGameLogs(ctx context.Context, gameID string) error

	Ping(ctx context.Context) error
	Close() error
}

// Open builds the backend named by driver. dsn is a file path for sqlite and a
// connection string for postgres; memory ignores it.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite, "":
		return NewSQLiteStore(dsn)
	case DriverPostgres:
		return NewPostgresStore(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func validatePlayers(in []players.Player) error {
	for i, p := range in {
		if p.ID == "" {
			return fmt.Errorf("%w: player %d has no id", ErrInvalidRecord, i)
		}
	}
	return nil
}

func validateGames(in []games.Game) error {
	for i, g := range in {
		if g.ID == "" {
			return fmt.Errorf("%w: game %d has no id", ErrInvalidRecord, i)
		}
	}
	return nil
}

func validateGamePlayers(in []games.GamePlayer) error {
	for i, gp := range in {
		if gp.GameID == "" || gp.PlayerID == "" {
			return fmt.Errorf("%w: game player %d needs gameId and playerId", ErrInvalidRecord, i)
		}
	}
	return nil
}

func validateLogs(in []logs.Log) error {
	for i, l := range in {
		if l.ID == "" || l.GameID == "" {
			return fmt.Errorf("%w: log %d needs id and gameId", ErrInvalidRecord, i)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
