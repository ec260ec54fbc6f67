package tablestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/preston-bernstein/courtside/internal/domain/players"
	"github.com/preston-bernstein/courtside/internal/metrics"
	"github.com/preston-bernstein/courtside/internal/testutil"
)

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	mem, err := Open(ctx, DriverMemory, "")
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := mem.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", mem)
	}

	lite, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer lite.Close()
	if _, ok := lite.(*SQLiteStore); !ok {
		t.Fatalf("expected *SQLiteStore, got %T", lite)
	}

	if _, err := Open(ctx, "mongo", ""); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestOpenPostgresFailsFastOnBadDSN(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := Open(ctx, DriverPostgres, "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestWithMetricsRecordsBatches(t *testing.T) {
	rec := metrics.NewRecorder()
	s := WithMetrics(NewMemoryStore(), rec)
	ctx := context.Background()

	_ = s.UpsertPlayers(ctx, []players.Player{testutil.SamplePlayer("a", 1, "A"), testutil.SamplePlayer("b", 2, "B")})
	_ = s.UpsertPlayers(ctx, []players.Player{{}})
	_, _ = s.ListPlayers(ctx)

	snap := rec.StoreSnapshot(ResourcePlayers)
	if snap.Calls != 3 || snap.Errors != 1 || snap.Records != 5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if got := WithMetrics(NewMemoryStore(), nil); got == nil {
		t.Fatal("expected store without recorder")
	}
}
