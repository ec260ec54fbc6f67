package games

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/kvstore"
	"github.com/preston-bernstein/courtside/internal/stats"
	"github.com/preston-bernstein/courtside/internal/timeutil"
)

var (
	// ErrNotFound is returned when a game id is unknown.
	ErrNotFound = errors.New("game not found")
	// ErrLogNotFound is returned when a log id is unknown.
	ErrLogNotFound = errors.New("log not found")
	// ErrNotOnRoster is returned when a player is not part of a game's roster.
	ErrNotOnRoster = errors.New("player not on game roster")
)

// Storage persists whole documents by key.
type Storage interface {
	Get(key string, dst any) (bool, error)
	Set(key string, value any) error
}

// Store owns games, their rosters and their event logs. Each collection is
// persisted as one JSON array and rewritten on every mutation.
type Store struct {
	kv    Storage
	clock clock.Clock
	newID func() string

	mu          sync.RWMutex
	games       []games.Game
	gamePlayers []games.GamePlayer
	logs        []logs.Log
}

// NewStore constructs a Store backed by kv. Call Load to read persisted state.
func NewStore(kv Storage, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}
	return &Store{
		kv:          kv,
		clock:       clk,
		newID:       uuid.NewString,
		games:       []games.Game{},
		gamePlayers: []games.GamePlayer{},
		logs:        []logs.Log{},
	}
}

// Load replaces all three collections with their persisted values. Missing keys load as empty.
func (s *Store) Load() error {
	var (
		gs  []games.Game
		gps []games.GamePlayer
		ls  []logs.Log
	)
	if _, err := s.kv.Get(kvstore.KeyGames, &gs); err != nil {
		return fmt.Errorf("load games: %w", err)
	}
	if _, err := s.kv.Get(kvstore.KeyGamePlayers, &gps); err != nil {
		return fmt.Errorf("load game players: %w", err)
	}
	if _, err := s.kv.Get(kvstore.KeyLogs, &ls); err != nil {
		return fmt.Errorf("load logs: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = nonNil(gs)
	s.gamePlayers = nonNil(gps)
	s.logs = nonNil(ls)
	return nil
}

// Reload re-reads persisted state, e.g. after a sync pull rewrote it.
func (s *Store) Reload() error {
	return s.Load()
}

// Games returns every game in creation order.
func (s *Store) Games() []games.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.games)
}

// Game returns a single game if present.
func (s *Store) Game(id string) (games.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.gameIndex(id); idx >= 0 {
		return s.games[idx], true
	}
	return games.Game{}, false
}

// CreateGame adds a game with a zero opponent score.
func (s *Store) CreateGame(opponentName, gameDate string) (games.Game, error) {
	g := games.Game{
		ID:            s.newID(),
		OpponentName:  strings.TrimSpace(opponentName),
		GameDate:      gameDate,
		OpponentScore: 0,
		CreatedAt:     timeutil.Millis(s.clock.Now()),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistGames(append(clone(s.games), g)); err != nil {
		return games.Game{}, err
	}
	return g, nil
}

// DeleteGame removes the game together with its roster rows and logs.
func (s *Store) DeleteGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameIndex(id) < 0 {
		return ErrNotFound
	}
	nextGames := filter(s.games, func(g games.Game) bool { return g.ID != id })
	nextRoster := filter(s.gamePlayers, func(gp games.GamePlayer) bool { return gp.GameID != id })
	nextLogs := filter(s.logs, func(l logs.Log) bool { return l.GameID != id })

	if err := s.persistGames(nextGames); err != nil {
		return err
	}
	if err := s.persistRoster(nextRoster); err != nil {
		return err
	}
	return s.persistLogs(nextLogs)
}

// UpdateOpponentScore adds delta to the opponent score, never going below zero.
func (s *Store) UpdateOpponentScore(gameID string, delta int) (games.Game, error) {
	return s.mutateGame(gameID, func(g games.Game) games.Game {
		g.OpponentScore = max(0, g.OpponentScore+delta)
		return g
	})
}

// SetOpponentScore overwrites the opponent score, clamped at zero.
func (s *Store) SetOpponentScore(gameID string, score int) (games.Game, error) {
	return s.mutateGame(gameID, func(g games.Game) games.Game {
		g.OpponentScore = max(0, score)
		return g
	})
}

func (s *Store) mutateGame(gameID string, fn func(games.Game) games.Game) (games.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.gameIndex(gameID)
	if idx < 0 {
		return games.Game{}, ErrNotFound
	}
	next := clone(s.games)
	next[idx] = fn(next[idx])
	if err := s.persistGames(next); err != nil {
		return games.Game{}, err
	}
	return next[idx], nil
}

// SetGamePlayers replaces the roster of a game. Players in activeIDs start
// active in the first quarter; every other quarter starts inactive.
func (s *Store) SetGamePlayers(gameID string, playerIDs, activeIDs []string) error {
	active := make(map[string]bool, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := filter(s.gamePlayers, func(gp games.GamePlayer) bool { return gp.GameID != gameID })
	for _, pid := range playerIDs {
		gp := games.GamePlayer{GameID: gameID, PlayerID: pid}
		next = append(next, gp.WithActive(games.Q1, active[pid]))
	}
	return s.persistRoster(next)
}

// TogglePlayerActive flips the player's flag for quarter q.
func (s *Store) TogglePlayerActive(gameID, playerID string, q games.Quarter) error {
	if !q.Valid() {
		return fmt.Errorf("toggle active: %w", games.ErrInvalidQuarter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := clone(s.gamePlayers)
	found := false
	for i, gp := range next {
		if gp.GameID == gameID && gp.PlayerID == playerID {
			next[i] = gp.WithActive(q, !gp.IsActive(q))
			found = true
		}
	}
	if !found {
		return ErrNotOnRoster
	}
	return s.persistRoster(next)
}

// ActivePlayers lists the players flagged active in quarter q, in roster order.
func (s *Store) ActivePlayers(gameID string, q games.Quarter) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []string{}
	for _, gp := range s.gamePlayers {
		if gp.GameID == gameID && gp.IsActive(q) {
			out = append(out, gp.PlayerID)
		}
	}
	return out
}

// GamePlayerIDs lists every player on the game's roster.
func (s *Store) GamePlayerIDs(gameID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []string{}
	for _, gp := range s.gamePlayers {
		if gp.GameID == gameID {
			out = append(out, gp.PlayerID)
		}
	}
	return out
}

// GamePlayers returns every roster row of every game.
func (s *Store) GamePlayers() []games.GamePlayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.gamePlayers)
}

// AppendLog stores l at the end of the log array.
func (s *Store) AppendLog(l logs.Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLogs(append(clone(s.logs), l))
}

// Logs returns every log in insertion order.
func (s *Store) Logs() []logs.Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.logs)
}

// GameLogs returns the logs of one game in insertion order.
func (s *Store) GameLogs(gameID string) []logs.Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.logs, func(l logs.Log) bool { return l.GameID == gameID })
}

// Log returns a single log if present.
func (s *Store) Log(id string) (logs.Log, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.logIndex(id); idx >= 0 {
		return s.logs[idx], true
	}
	return logs.Log{}, false
}

// DeleteLog removes the log and, when it is a made shot, every assist linked
// to it. The cascade is one level deep. It returns the removed ids.
func (s *Store) DeleteLog(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.logIndex(id)
	if idx < 0 {
		return nil, ErrLogNotFound
	}
	return s.removeWithAssists(s.logs[idx])
}

// UndoLast removes the most recent log of the game, cascading like DeleteLog.
// A game without logs is left alone and reports no removals.
func (s *Store) UndoLast(gameID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].GameID == gameID {
			return s.removeWithAssists(s.logs[i])
		}
	}
	return nil, nil
}

// removeWithAssists must be called with mu held.
func (s *Store) removeWithAssists(target logs.Log) ([]string, error) {
	remove := map[string]bool{target.ID: true}
	removed := []string{target.ID}
	if target.IsMadeShot() {
		for _, l := range s.logs {
			if l.AssistsShot(target.ID) && !remove[l.ID] {
				remove[l.ID] = true
				removed = append(removed, l.ID)
			}
		}
	}
	next := filter(s.logs, func(l logs.Log) bool { return !remove[l.ID] })
	if err := s.persistLogs(next); err != nil {
		return nil, err
	}
	return removed, nil
}

// UpdateLog merges patch into an existing log. Assist links are not re-checked.
func (s *Store) UpdateLog(id string, patch logs.Patch) (logs.Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.logIndex(id)
	if idx < 0 {
		return logs.Log{}, ErrLogNotFound
	}
	next := clone(s.logs)
	next[idx] = patch.Apply(next[idx])
	if err := s.persistLogs(next); err != nil {
		return logs.Log{}, err
	}
	return next[idx], nil
}

// TeamScore is the score of the game derived from its logs.
func (s *Store) TeamScore(gameID string) int {
	return stats.TeamScore(s.GameLogs(gameID))
}

func (s *Store) gameIndex(id string) int {
	for i, g := range s.games {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) logIndex(id string) int {
	for i, l := range s.logs {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistGames(next []games.Game) error {
	if err := s.kv.Set(kvstore.KeyGames, next); err != nil {
		return fmt.Errorf("save games: %w", err)
	}
	s.games = next
	return nil
}

func (s *Store) persistRoster(next []games.GamePlayer) error {
	if err := s.kv.Set(kvstore.KeyGamePlayers, next); err != nil {
		return fmt.Errorf("save game players: %w", err)
	}
	s.gamePlayers = next
	return nil
}

func (s *Store) persistLogs(next []logs.Log) error {
	if err := s.kv.Set(kvstore.KeyLogs, next); err != nil {
		return fmt.Errorf("save logs: %w", err)
	}
	s.logs = next
	return nil
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
