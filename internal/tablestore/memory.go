package tablestore

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
)

type gamePlayerKey struct {
	gameID   string
	playerID string
}

// MemoryStore keeps the four tables in maps guarded by one lock.
type MemoryStore struct {
	mu          sync.RWMutex
	players     map[string]players.Player
	games       map[string]games.Game
	gamePlayers map[gamePlayerKey]games.GamePlayer
	logs        map[string]logs.Log
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players:     make(map[string]players.Player),
		games:       make(map[string]games.Game),
		gamePlayers: make(map[gamePlayerKey]games.GamePlayer),
		logs:        make(map[string]logs.Log),
	}
}

func (s *MemoryStore) ListPlayers(context.Context) ([]players.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := values(s.players)
	slices.SortFunc(out, func(a, b players.Player) int {
		return cmp.Or(cmp.Compare(a.Number, b.Number), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *MemoryStore) UpsertPlayers(_ context.Context, in []players.Player) error {
	if err := validatePlayers(in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range in {
		s.players[p.ID] = p
	}
	return nil
}

func (s *MemoryStore) DeletePlayer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

func (s *MemoryStore) ListGames(context.Context) ([]games.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := values(s.games)
	slices.SortFunc(out, func(a, b games.Game) int {
		return cmp.Or(cmp.Compare(b.CreatedAt, a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *MemoryStore) UpsertGames(_ context.Context, in []games.Game) error {
	if err := validateGames(in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range in {
		s.games[g.ID] = g
	}
	return nil
}

func (s *MemoryStore) DeleteGame(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *MemoryStore) ListGamePlayers(_ context.Context, gameID string) ([]games.GamePlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]games.GamePlayer, 0, len(s.gamePlayers))
	for _, gp := range s.gamePlayers {
		if gameID == "" || gp.GameID == gameID {
			out = append(out, gp)
		}
	}
	slices.SortFunc(out, func(a, b games.GamePlayer) int {
		return cmp.Or(cmp.Compare(a.GameID, b.GameID), cmp.Compare(a.PlayerID, b.PlayerID))
	})
	return out, nil
}

func (s *MemoryStore) UpsertGamePlayers(_ context.Context, in []games.GamePlayer) error {
	if err := validateGamePlayers(in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, gp := range in {
		s.gamePlayers[gamePlayerKey{gp.GameID, gp.PlayerID}] = gp
	}
	return nil
}

func (s *MemoryStore) DeleteGamePlayers(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.gamePlayers {
		if k.gameID == gameID {
			delete(s.gamePlayers, k)
		}
	}
	return nil
}

func (s *MemoryStore) ListLogs(_ context.Context, gameID string) ([]logs.Log, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]logs.Log, 0, len(s.logs))
	for _, l := range s.logs {
		if gameID == "" || l.GameID == gameID {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b logs.Log) int {
		return cmp.Or(cmp.Compare(a.Timestamp, b.Timestamp), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *MemoryStore) UpsertLogs(_ context.Context, in []logs.Log) error {
	if err := validateLogs(in); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range in {
		s.logs[l.ID] = l
	}
	return nil
}

func (s *MemoryStore) DeleteLog(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, id)
	return nil
}

func (s *MemoryStore) DeleteGameLogs(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, l := range s.logs {
		if l.GameID == gameID {
			delete(s.logs, id)
		}
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func values[K comparable, V any](m map[K]V) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
