package tablestore

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
)

//go:embed schema_postgres.sql
var postgresSchema string

// PostgresStore backs the API with a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, pings and applies the schema.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ListPlayers(ctx context.Context) ([]players.Player, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, number, name, created_at FROM players ORDER BY number, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []players.Player{}
	for rows.Next() {
		var p players.Player
		if err := rows.Scan(&p.ID, &p.Number, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertPlayers(ctx context.Context, in []players.Player) error {
	if err := validatePlayers(in); err != nil {
		return err
	}
	const query = `INSERT INTO players (id, number, name, created_at)
		VALUES (@id, @number, @name, @createdAt)
		ON CONFLICT (id) DO UPDATE SET
			number = EXCLUDED.number,
			name = EXCLUDED.name,
			created_at = EXCLUDED.created_at`
	return s.batch(ctx, query, len(in), func(i int) pgx.NamedArgs {
		p := in[i]
		return pgx.NamedArgs{"id": p.ID, "number": p.Number, "name": p.Name, "createdAt": p.CreatedAt}
	})
}

func (s *PostgresStore) DeletePlayer(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM players WHERE id = @id`, pgx.NamedArgs{"id": id})
	return err
}

func (s *PostgresStore) ListGames(ctx context.Context) ([]games.Game, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, opponent_name, game_date, opponent_score, created_at
		FROM games ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []games.Game{}
	for rows.Next() {
		var g games.Game
		if err := rows.Scan(&g.ID, &g.OpponentName, &g.GameDate, &g.OpponentScore, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertGames(ctx context.Context, in []games.Game) error {
	if err := validateGames(in); err != nil {
		return err
	}
	const query = `INSERT INTO games (id, opponent_name, game_date, opponent_score, created_at)
		VALUES (@id, @opponentName, @gameDate, @opponentScore, @createdAt)
		ON CONFLICT (id) DO UPDATE SET
			opponent_name = EXCLUDED.opponent_name,
			game_date = EXCLUDED.game_date,
			opponent_score = EXCLUDED.opponent_score,
			created_at = EXCLUDED.created_at`
	return s.batch(ctx, query, len(in), func(i int) pgx.NamedArgs {
		g := in[i]
		return pgx.NamedArgs{
			"id":            g.ID,
			"opponentName":  g.OpponentName,
			"gameDate":      g.GameDate,
			"opponentScore": g.OpponentScore,
			"createdAt":     g.CreatedAt,
		}
	})
}

func (s *PostgresStore) DeleteGame(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM games WHERE id = @id`, pgx.NamedArgs{"id": id})
	return err
}

func (s *PostgresStore) ListGamePlayers(ctx context.Context, gameID string) ([]games.GamePlayer, error) {
	const query = `SELECT game_id, player_id, is_active_q1, is_active_q2, is_active_q3, is_active_q4, is_active_q5
		FROM game_players
		WHERE @gameId = '' OR game_id = @gameId
		ORDER BY game_id, player_id`
	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"gameId": gameID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []games.GamePlayer{}
	for rows.Next() {
		var gp games.GamePlayer
		a := &gp.Active
		if err := rows.Scan(&gp.GameID, &gp.PlayerID, &a[0], &a[1], &a[2], &a[3], &a[4]); err != nil {
			return nil, err
		}
		out = append(out, gp)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertGamePlayers(ctx context.Context, in []games.GamePlayer) error {
	if err := validateGamePlayers(in); err != nil {
		return err
	}
	const query = `INSERT INTO game_players
			(game_id, player_id, is_active_q1, is_active_q2, is_active_q3, is_active_q4, is_active_q5)
		VALUES (@gameId, @playerId, @q1, @q2, @q3, @q4, @q5)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			is_active_q1 = EXCLUDED.is_active_q1,
			is_active_q2 = EXCLUDED.is_active_q2,
			is_active_q3 = EXCLUDED.is_active_q3,
			is_active_q4 = EXCLUDED.is_active_q4,
			is_active_q5 = EXCLUDED.is_active_q5`
	return s.batch(ctx, query, len(in), func(i int) pgx.NamedArgs {
		gp := in[i]
		return pgx.NamedArgs{
			"gameId":   gp.GameID,
			"playerId": gp.PlayerID,
			"q1":       gp.Active[0],
			"q2":       gp.Active[1],
			"q3":       gp.Active[2],
			"q4":       gp.Active[3],
			"q5":       gp.Active[4],
		}
	})
}

func (s *PostgresStore) DeleteGamePlayers(ctx context.Context, gameID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM game_players WHERE game_id = @gameId`, pgx.NamedArgs{"gameId": gameID})
	return err
}

func (s *PostgresStore) ListLogs(ctx context.Context, gameID string) ([]logs.Log, error) {
	const query = `SELECT id, game_id, quarter, player_id, action, zone_id, result, timestamp,
			passer_player_id, scorer_player_id, linked_shot_log_id
		FROM logs
		WHERE @gameId = '' OR game_id = @gameId
		ORDER BY timestamp ASC, id`
	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"gameId": gameID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []logs.Log{}
	for rows.Next() {
		var (
			l       logs.Log
			quarter int
			action  string
		)
		if err := rows.Scan(&l.ID, &l.GameID, &quarter, &l.PlayerID, &action, &l.ZoneID, &l.Result, &l.Timestamp,
			&l.PasserPlayerID, &l.ScorerPlayerID, &l.LinkedShotLogID); err != nil {
			return nil, err
		}
		l.Quarter = games.Quarter(quarter)
		l.Action = logs.Action(action)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertLogs(ctx context.Context, in []logs.Log) error {
	if err := validateLogs(in); err != nil {
		return err
	}
	const query = `INSERT INTO logs
			(id, game_id, quarter, player_id, action, zone_id, result, timestamp,
			 passer_player_id, scorer_player_id, linked_shot_log_id)
		VALUES (@id, @gameId, @quarter, @playerId, @action, @zoneId, @result, @timestamp,
			@passer, @scorer, @linked)
		ON CONFLICT (id) DO UPDATE SET
			game_id = EXCLUDED.game_id,
			quarter = EXCLUDED.quarter,
			player_id = EXCLUDED.player_id,
			action = EXCLUDED.action,
			zone_id = EXCLUDED.zone_id,
			result = EXCLUDED.result,
			timestamp = EXCLUDED.timestamp,
			passer_player_id = EXCLUDED.passer_player_id,
			scorer_player_id = EXCLUDED.scorer_player_id,
			linked_shot_log_id = EXCLUDED.linked_shot_log_id`
	return s.batch(ctx, query, len(in), func(i int) pgx.NamedArgs {
		l := in[i]
		return pgx.NamedArgs{
			"id":        l.ID,
			"gameId":    l.GameID,
			"quarter":   int(l.Quarter),
			"playerId":  l.PlayerID,
			"action":    string(l.Action),
			"zoneId":    l.ZoneID,
			"result":    l.Result,
			"timestamp": l.Timestamp,
			"passer":    l.PasserPlayerID,
			"scorer":    l.ScorerPlayerID,
			"linked":    l.LinkedShotLogID,
		}
	})
}

func (s *PostgresStore) DeleteLog(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM logs WHERE id = @id`, pgx.NamedArgs{"id": id})
	return err
}

func (s *PostgresStore) DeleteGameLogs(ctx context.Context, gameID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM logs WHERE game_id = @gameId`, pgx.NamedArgs{"gameId": gameID})
	return err
}

func (s *PostgresStore) batch(ctx context.Context, query string, n int, args func(i int) pgx.NamedArgs) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < n; i++ {
		if _, err := tx.Exec(ctx, query, args(i)); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing batch: %w", err)
	}
	return nil
}
