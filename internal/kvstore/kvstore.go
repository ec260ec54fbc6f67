package kvstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/preston-bernstein/courtside/internal/logging"
)

// DefaultPrefix namespaces every key written by the recorder.
const DefaultPrefix = "bball_"

// Keys persisted by the recorder.
const (
	KeyPlayers     = "players"
	KeyGames       = "games"
	KeyGamePlayers = "game_players"
	KeyLogs        = "logs"
	KeyLastSynced  = "last_synced"
	KeyAPIKey      = "api_key"
)

const fileExt = ".json"

// Store keeps one JSON document per key under dir, named {prefix}{key}.json.
type Store struct {
	dir    string
	prefix string
	logger *slog.Logger

	mu sync.Mutex
}

// New constructs a store rooted at dir. An empty prefix falls back to DefaultPrefix.
func New(dir, prefix string, logger *slog.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{dir: dir, prefix: prefix, logger: logger}
}

// Dir exposes the root directory.
func (s *Store) Dir() string {
	if s == nil {
		return ""
	}
	return s.dir
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, s.prefix+key+fileExt)
}

// Get decodes the value stored under key into dst.
// A missing key reports false. A value that no longer parses is treated as missing.
func (s *Store) Get(key string, dst any) (bool, error) {
	if s == nil {
		return false, errors.New("kv store not configured")
	}
	if key == "" {
		return false, errors.New("key required")
	}
	s.mu.Lock()
	data, err := os.ReadFile(s.path(key))
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logging.Warn(s.logger, "discarding unreadable value", logging.FieldKey, key, logging.FieldError, err)
		return false, nil
	}
	return true, nil
}

// Set encodes value as JSON and replaces the stored document atomically.
func (s *Store) Set(key string, value any) error {
	if s == nil {
		return errors.New("kv store not configured")
	}
	if key == "" {
		return errors.New("key required")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	target := s.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	logging.Debug(s.logger, "kv document written", logging.FieldKey, key, "bytes", len(data))
	return nil
}

// Remove deletes the value stored under key. Missing keys are not an error.
func (s *Store) Remove(key string) error {
	if s == nil {
		return errors.New("kv store not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Keys lists the keys present under the prefix, sorted.
func (s *Store) Keys() ([]string, error) {
	if s == nil {
		return nil, errors.New("kv store not configured")
	}
	s.mu.Lock()
	entries, err := os.ReadDir(s.dir)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, s.prefix) || filepath.Ext(name) != fileExt {
			continue
		}
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(name, s.prefix), fileExt))
	}
	sort.Strings(keys)
	return keys, nil
}
