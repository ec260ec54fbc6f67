package tablestore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLiteStore is the default backend, one database file per server.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty database path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) ListPlayers(ctx context.Context) ([]players.Player, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, number, name, created_at FROM players ORDER BY number, id`)
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

func (s *SQLiteStore) UpsertPlayers(ctx context.Context, in []players.Player) error {
	if err := validatePlayers(in); err != nil {
		return err
	}
	return s.batch(ctx, `INSERT OR REPLACE INTO players (id, number, name, created_at) VALUES (?, ?, ?, ?)`,
		len(in), func(i int) []any {
			p := in[i]
			return []any{p.ID, p.Number, p.Name, p.CreatedAt}
		})
}

func (s *SQLiteStore) DeletePlayer(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) ListGames(ctx context.Context) ([]games.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, opponent_name, game_date, opponent_score, created_at
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

func (s *SQLiteStore) UpsertGames(ctx context.Context, in []games.Game) error {
	if err := validateGames(in); err != nil {
		return err
	}
	return s.batch(ctx, `
		INSERT OR REPLACE INTO games (id, opponent_name, game_date, opponent_score, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		len(in), func(i int) []any {
			g := in[i]
			return []any{g.ID, g.OpponentName, g.GameDate, g.OpponentScore, g.CreatedAt}
		})
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) ListGamePlayers(ctx context.Context, gameID string) ([]games.GamePlayer, error) {
	query := `
		SELECT game_id, player_id, is_active_q1, is_active_q2, is_active_q3, is_active_q4, is_active_q5
		FROM game_players`
	var args []any
	if gameID != "" {
		query += ` WHERE game_id = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY game_id, player_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []games.GamePlayer{}
	for rows.Next() {
		var gp games.GamePlayer
		var flags [games.QuarterCount]int
		if err := rows.Scan(&gp.GameID, &gp.PlayerID, &flags[0], &flags[1], &flags[2], &flags[3], &flags[4]); err != nil {
			return nil, err
		}
		for i, f := range flags {
			gp.Active[i] = f != 0
		}
		out = append(out, gp)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpsertGamePlayers(ctx context.Context, in []games.GamePlayer) error {
	if err := validateGamePlayers(in); err != nil {
		return err
	}
	return s.batch(ctx, `
		INSERT OR REPLACE INTO game_players
			(game_id, player_id, is_active_q1, is_active_q2, is_active_q3, is_active_q4, is_active_q5)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		len(in), func(i int) []any {
			gp := in[i]
			return []any{
				gp.GameID, gp.PlayerID,
				boolToInt(gp.Active[0]), boolToInt(gp.Active[1]), boolToInt(gp.Active[2]),
				boolToInt(gp.Active[3]), boolToInt(gp.Active[4]),
			}
		})
}

func (s *SQLiteStore) DeleteGamePlayers(ctx context.Context, gameID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM game_players WHERE game_id = ?`, gameID)
	return err
}

func (s *SQLiteStore) ListLogs(ctx context.Context, gameID string) ([]logs.Log, error) {
	query := `
		SELECT id, game_id, quarter, player_id, action, zone_id, result, timestamp,
			passer_player_id, scorer_player_id, linked_shot_log_id
		FROM logs`
	var args []any
	if gameID != "" {
		query += ` WHERE game_id = ?`
		args = append(args, gameID)
	}
	query += ` ORDER BY timestamp ASC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []logs.Log{}
	for rows.Next() {
		var (
			l                        logs.Log
			quarter                  int
			action                   string
			zone                     sql.NullInt64
			passer, scorer, linkedTo sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.GameID, &quarter, &l.PlayerID, &action, &zone, &l.Result, &l.Timestamp,
			&passer, &scorer, &linkedTo); err != nil {
			return nil, err
		}
		l.Quarter = games.Quarter(quarter)
		l.Action = logs.Action(action)
		if zone.Valid {
			l.ZoneID = logs.IntPtr(int(zone.Int64))
		}
		l.PasserPlayerID = nullableString(passer)
		l.ScorerPlayerID = nullableString(scorer)
		l.LinkedShotLogID = nullableString(linkedTo)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpsertLogs(ctx context.Context, in []logs.Log) error {
	if err := validateLogs(in); err != nil {
		return err
	}
	return s.batch(ctx, `
		INSERT OR REPLACE INTO logs
			(id, game_id, quarter, player_id, action, zone_id, result, timestamp,
			 passer_player_id, scorer_player_id, linked_shot_log_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(in), func(i int) []any {
			l := in[i]
			var zone sql.NullInt64
			if l.ZoneID != nil {
				zone = sql.NullInt64{Int64: int64(*l.ZoneID), Valid: true}
			}
			return []any{
				l.ID, l.GameID, int(l.Quarter), l.PlayerID, string(l.Action), zone, l.Result, l.Timestamp,
				toNullString(l.PasserPlayerID), toNullString(l.ScorerPlayerID), toNullString(l.LinkedShotLogID),
			}
		})
}

func (s *SQLiteStore) DeleteLog(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM logs WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) DeleteGameLogs(ctx context.Context, gameID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM logs WHERE game_id = ?`, gameID)
	return err
}

// batch runs one prepared statement n times inside a transaction.
func (s *SQLiteStore) batch(ctx context.Context, query string, n int, args func(i int) []any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func toNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
