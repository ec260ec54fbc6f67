package players

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/courtside/internal/domain/players"
	"github.com/preston-bernstein/courtside/internal/kvstore"
	"github.com/preston-bernstein/courtside/internal/timeutil"
)

// ErrNotFound is returned when a player id is unknown.
var ErrNotFound = errors.New("player not found")

// Storage persists whole documents by key.
type Storage interface {
	Get(key string, dst any) (bool, error)
	Set(key string, value any) error
}

// Store holds the roster in memory and writes the whole array back on every mutation.
type Store struct {
	kv    Storage
	clock clock.Clock
	newID func() string

	mu      sync.RWMutex
	players []players.Player
}

// NewStore constructs a Store backed by kv. Call Load to read persisted players.
func NewStore(kv Storage, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}
	return &Store{
		kv:      kv,
		clock:   clk,
		newID:   uuid.NewString,
		players: []players.Player{},
	}
}

// Load replaces the in-memory roster with the persisted one.
// Nothing persisted leaves the current roster untouched.
func (s *Store) Load() error {
	var saved []players.Player
	found, err := s.kv.Get(kvstore.KeyPlayers, &saved)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	if !found {
		return nil
	}
	if saved == nil {
		saved = []players.Player{}
	}
	s.mu.Lock()
	s.players = saved
	s.mu.Unlock()
	return nil
}

// All returns the roster in insertion order.
func (s *Store) All() []players.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]players.Player, len(s.players))
	copy(out, s.players)
	return out
}

// List returns the roster ordered by jersey number.
func (s *Store) List() []players.Player {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Get returns a single player if present.
func (s *Store) Get(id string) (players.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return players.Player{}, false
}

// FindByNumber returns the first player wearing number.
func (s *Store) FindByNumber(number int) (players.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.Number == number {
			return p, true
		}
	}
	return players.Player{}, false
}

// Add creates a player with a fresh id and the current time.
func (s *Store) Add(number int, name string) (players.Player, error) {
	p := players.Player{
		ID:        s.newID(),
		Number:    number,
		Name:      strings.TrimSpace(name),
		CreatedAt: timeutil.Millis(s.clock.Now()),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(append([]players.Player{}, s.players...), p)
	if err := s.persist(next); err != nil {
		return players.Player{}, err
	}
	return p, nil
}

// Update merges patch into the player with id.
func (s *Store) Update(id string, patch players.Patch) (players.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return players.Player{}, ErrNotFound
	}
	next := append([]players.Player{}, s.players...)
	next[idx] = patch.Apply(next[idx])
	if err := s.persist(next); err != nil {
		return players.Player{}, err
	}
	return next[idx], nil
}

// Remove deletes the player. Game rosters and logs that reference it are left alone.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	next := make([]players.Player, 0, len(s.players)-1)
	next = append(next, s.players[:idx]...)
	next = append(next, s.players[idx+1:]...)
	return s.persist(next)
}

func (s *Store) indexOf(id string) int {
	for i, p := range s.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (s *Store) persist(next []players.Player) error {
	if err := s.kv.Set(kvstore.KeyPlayers, next); err != nil {
		return fmt.Errorf("save players: %w", err)
	}
	s.players = next
	return nil
}
