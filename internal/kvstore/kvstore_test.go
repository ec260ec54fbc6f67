package kvstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/preston-bernstein/courtside/internal/testutil"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestSetThenGetRoundTripsUnderPrefix(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "", nil)

	want := []record{{ID: "a", Name: "Ann"}}
	if err := s.Set(KeyPlayers, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bball_players.json")); err != nil {
		t.Fatalf("expected prefixed file on disk: %v", err)
	}

	var got []record
	found, err := s.Get(KeyPlayers, &got)
	if err != nil || !found {
		t.Fatalf("expected value, found=%v err=%v", found, err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestGetMissingKeyReportsNotFound(t *testing.T) {
	s := New(t.TempDir(), "", nil)
	var got []record
	found, err := s.Get(KeyGames, &got)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found {
		t.Fatalf("expected missing key to report not found")
	}
}

func TestGetCorruptValueIsTreatedAsMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bball_logs.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	logger, buf := testutil.NewBufferLogger()
	s := New(dir, "", logger)

	var got []record
	found, err := s.Get(KeyLogs, &got)
	if err != nil || found {
		t.Fatalf("expected corrupt value to read as missing, found=%v err=%v", found, err)
	}
	if !strings.Contains(buf.String(), "discarding unreadable value") {
		t.Fatalf("expected warning log, got %q", buf.String())
	}
}

func TestSetLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "", nil)
	if err := s.Set(KeyLastSynced, int64(42)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bball_last_synced.json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err=%v", err)
	}
}

func TestRemoveAndKeys(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "", nil)
	for _, k := range []string{KeyLogs, KeyGames, KeyAPIKey} {
		if err := s.Set(k, "x"); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	// Files without the prefix are not ours.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("1"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := s.Remove(KeyGames); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove("never-set"); err != nil {
		t.Fatalf("removing a missing key should succeed, got %v", err)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if strings.Join(keys, ",") != "api_key,logs" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestKeysOnMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"), "", nil)
	keys, err := s.Keys()
	if err != nil || len(keys) != 0 {
		t.Fatalf("expected empty keys, got %v err=%v", keys, err)
	}
}

func TestNilStoreErrors(t *testing.T) {
	var s *Store
	if _, err := s.Get(KeyPlayers, &[]record{}); err == nil {
		t.Fatalf("expected error for nil store")
	}
	if err := s.Set(KeyPlayers, nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}
