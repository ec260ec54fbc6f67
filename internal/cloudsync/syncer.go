// Package cloudsync copies the four local collections to and from the remote API.
// Local data is authoritative: a push never deletes remote rows and a pull
// that finds nothing remote leaves local data alone.
package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/courtside/internal/domain/games"
	"github.com/preston-bernstein/courtside/internal/domain/logs"
	"github.com/preston-bernstein/courtside/internal/domain/players"
	"github.com/preston-bernstein/courtside/internal/kvstore"
	"github.com/preston-bernstein/courtside/internal/logging"
	"github.com/preston-bernstein/courtside/internal/metrics"
	"github.com/preston-bernstein/courtside/internal/timeutil"
)

const (
	DirectionPush = "push"
	DirectionPull = "pull"
)

// ErrOffline is returned when the connectivity probe fails before a sync.
var ErrOffline = errors.New("remote unreachable")

// Remote is the part of the API client a sync needs.
type Remote interface {
	ListPlayers(ctx context.Context) ([]players.Player, error)
	ListGames(ctx context.Context) ([]games.Game, error)
	ListGamePlayers(ctx context.Context, gameID string) ([]games.GamePlayer, error)
	ListLogs(ctx context.Context, gameID string) ([]logs.Log, error)
	SavePlayers(ctx context.Context, in []players.Player) (int, error)
	SaveGames(ctx context.Context, in []games.Game) (int, error)
	SaveGamePlayers(ctx context.Context, in []games.GamePlayer) (int, error)
	SaveLogs(ctx context.Context, in []logs.Log) (int, error)
}

// Storage persists whole documents by key.
type Storage interface {
	Get(key string, dst any) (bool, error)
	Set(key string, value any) error
}

// Loader re-reads persisted state after a pull rewrote it.
type Loader interface {
	Load() error
}

// Config wires a Syncer.
type Config struct {
	Remote       Remote
	Storage      Storage
	Connectivity Connectivity
	Loaders      []Loader
	Clock        clock.Clock
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
}

// Syncer runs push and pull against the remote API and keeps the last status.
// Calls are not serialized against each other.
type Syncer struct {
	remote  Remote
	kv      Storage
	online  Connectivity
	loaders []Loader
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Recorder

	mu     sync.RWMutex
	status Status
}

// New constructs a Syncer. The last-synced time is read from storage.
func New(cfg Config) *Syncer {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Connectivity == nil {
		cfg.Connectivity = Static(true)
	}
	s := &Syncer{
		remote:  cfg.Remote,
		kv:      cfg.Storage,
		online:  cfg.Connectivity,
		loaders: cfg.Loaders,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		status:  Status{State: StateIdle},
	}
	var last int64
	if found, err := s.kv.Get(kvstore.KeyLastSynced, &last); err == nil && found {
		s.status.LastSynced = last
	}
	return s
}

// Status returns a snapshot of the current sync status.
func (s *Syncer) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.status
	if out.LastPush != nil {
		counts := *out.LastPush
		out.LastPush = &counts
	}
	return out
}

// CheckConnectivity sets the status to idle or offline from a fresh probe.
func (s *Syncer) CheckConnectivity(ctx context.Context) State {
	state := StateIdle
	if !s.online.Online(ctx) {
		state = StateOffline
	}
	s.update(func(st *Status) {
		st.State = state
		st.Error = ""
	})
	return state
}

type snapshot struct {
	players     []players.Player
	games       []games.Game
	gamePlayers []games.GamePlayer
	logs        []logs.Log
}

func (s snapshot) empty() bool {
	return len(s.players) == 0 && len(s.games) == 0 && len(s.gamePlayers) == 0 && len(s.logs) == 0
}

func (s *Syncer) readLocal() (snapshot, error) {
	var snap snapshot
	reads := []struct {
		key string
		dst any
	}{
		{kvstore.KeyPlayers, &snap.players},
		{kvstore.KeyGames, &snap.games},
		{kvstore.KeyGamePlayers, &snap.gamePlayers},
		{kvstore.KeyLogs, &snap.logs},
	}
	for _, r := range reads {
		if _, err := s.kv.Get(r.key, r.dst); err != nil {
			return snapshot{}, fmt.Errorf("read %s: %w", r.key, err)
		}
	}
	return snap, nil
}

// Push uploads every non-empty local collection in the order players, games,
// game players, logs. A failure stops the push; earlier uploads stay remote.
func (s *Syncer) Push(ctx context.Context) (err error) {
	if !s.begin(ctx, func(st *Status) { st.LastPush = nil }) {
		return ErrOffline
	}
	start := time.Now()
	defer func() { s.finish(DirectionPush, start, err) }()

	local, err := s.readLocal()
	if err != nil {
		return err
	}

	steps := []struct {
		resource string
		n        int
		save     func() (int, error)
	}{
		{"players", len(local.players), func() (int, error) { return s.remote.SavePlayers(ctx, local.players) }},
		{"games", len(local.games), func() (int, error) { return s.remote.SaveGames(ctx, local.games) }},
		{"game_players", len(local.gamePlayers), func() (int, error) { return s.remote.SaveGamePlayers(ctx, local.gamePlayers) }},
		{"logs", len(local.logs), func() (int, error) { return s.remote.SaveLogs(ctx, local.logs) }},
	}
	for _, step := range steps {
		if step.n == 0 {
			continue
		}
		if _, err := step.save(); err != nil {
			return fmt.Errorf("push %s: %w", step.resource, err)
		}
		logging.Info(s.logger, "pushed collection", logging.FieldResource, step.resource, logging.FieldCount, step.n)
	}

	now, err := s.markSynced()
	if err != nil {
		return err
	}
	s.update(func(st *Status) {
		st.LastPush = &Counts{
			Players:     len(local.players),
			Games:       len(local.games),
			GamePlayers: len(local.gamePlayers),
			Logs:        len(local.logs),
		}
		st.LastSynced = now
	})
	return nil
}

// Pull replaces the local collections with the remote ones. A collection whose
// fetch fails keeps its local value. When nothing remote is non-empty and local
// data exists, local data is left untouched.
func (s *Syncer) Pull(ctx context.Context) (err error) {
	if !s.begin(ctx, nil) {
		return ErrOffline
	}
	start := time.Now()
	defer func() { s.finish(DirectionPull, start, err) }()

	local, err := s.readLocal()
	if err != nil {
		return err
	}

	var (
		cloud snapshot
		errs  [4]error
		wg    sync.WaitGroup
	)
	wg.Add(4)
	go func() { defer wg.Done(); cloud.players, errs[0] = s.remote.ListPlayers(ctx) }()
	go func() { defer wg.Done(); cloud.games, errs[1] = s.remote.ListGames(ctx) }()
	go func() { defer wg.Done(); cloud.gamePlayers, errs[2] = s.remote.ListGamePlayers(ctx, "") }()
	go func() { defer wg.Done(); cloud.logs, errs[3] = s.remote.ListLogs(ctx, "") }()
	wg.Wait()

	resources := [4]string{"players", "games", "game_players", "logs"}
	for i, fetchErr := range errs {
		if fetchErr != nil {
			logging.Warn(s.logger, "pull fetch failed, keeping local", logging.FieldResource, resources[i], logging.FieldError, fetchErr)
		}
	}

	merged := snapshot{
		players:     pick(cloud.players, errs[0], local.players),
		games:       pick(cloud.games, errs[1], local.games),
		gamePlayers: pick(cloud.gamePlayers, errs[2], local.gamePlayers),
		logs:        pick(cloud.logs, errs[3], local.logs),
	}
	hasCloud := (errs[0] == nil && len(cloud.players) > 0) ||
		(errs[1] == nil && len(cloud.games) > 0) ||
		(errs[2] == nil && len(cloud.gamePlayers) > 0) ||
		(errs[3] == nil && len(cloud.logs) > 0)
	if !hasCloud && !local.empty() {
		logging.Info(s.logger, "remote empty, keeping local data")
		return nil
	}

	writes := []struct {
		key   string
		value any
	}{
		{kvstore.KeyPlayers, merged.players},
		{kvstore.KeyGames, merged.games},
		{kvstore.KeyGamePlayers, merged.gamePlayers},
		{kvstore.KeyLogs, merged.logs},
	}
	for _, w := range writes {
		if err := s.kv.Set(w.key, w.value); err != nil {
			return fmt.Errorf("write %s: %w", w.key, err)
		}
	}
	for _, l := range s.loaders {
		if err := l.Load(); err != nil {
			return fmt.Errorf("reload after pull: %w", err)
		}
	}

	now, err := s.markSynced()
	if err != nil {
		return err
	}
	s.update(func(st *Status) { st.LastSynced = now })
	return nil
}

func pick[T any](cloud []T, err error, local []T) []T {
	out := cloud
	if err != nil {
		out = local
	}
	if out == nil {
		return []T{}
	}
	return out
}

// begin probes connectivity and moves to syncing, or to offline.
func (s *Syncer) begin(ctx context.Context, reset func(*Status)) bool {
	if !s.online.Online(ctx) {
		s.update(func(st *Status) {
			st.State = StateOffline
			st.Error = ""
		})
		logging.Warn(s.logger, "sync skipped, remote unreachable")
		return false
	}
	s.update(func(st *Status) {
		st.State = StateSyncing
		st.Error = ""
		if reset != nil {
			reset(st)
		}
	})
	return true
}

func (s *Syncer) finish(direction string, start time.Time, err error) {
	elapsed := time.Since(start)
	s.metrics.RecordSyncCycle(direction, elapsed, err)
	if err != nil {
		s.update(func(st *Status) {
			st.State = StateError
			st.Error = err.Error()
		})
		logging.Error(s.logger, "sync failed", err, logging.FieldDirection, direction)
		return
	}
	s.update(func(st *Status) { st.State = StateSuccess })
	logging.Info(s.logger, "sync finished",
		logging.FieldDirection, direction,
		logging.FieldDurationMS, elapsed.Milliseconds(),
	)
}

func (s *Syncer) markSynced() (int64, error) {
	now := timeutil.Millis(s.clock.Now())
	if err := s.kv.Set(kvstore.KeyLastSynced, now); err != nil {
		return 0, fmt.Errorf("record last synced: %w", err)
	}
	return now, nil
}

func (s *Syncer) update(fn func(*Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.status)
}
