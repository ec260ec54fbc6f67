package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksStoreBatches(t *testing.T) {
	rec := NewRecorder()
	rec.RecordStoreBatch("players", "upsert", 3, 10*time.Millisecond, nil)
	rec.RecordStoreBatch("players", "upsert", 2, 15*time.Millisecond, errors.New("boom"))
	rec.RecordStoreBatch("logs", "list", 0, time.Millisecond, nil)

	snap := rec.StoreSnapshot("players")
	if snap.Calls != 2 || snap.Errors != 1 || snap.Records != 5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.LastLatency != 15*time.Millisecond {
		t.Fatalf("expected last latency 15ms, got %s", snap.LastLatency)
	}
	if got := rec.StoreSnapshot("logs").Calls; got != 1 {
		t.Fatalf("expected 1 logs call, got %d", got)
	}
	if got := rec.StoreSnapshot("games"); got != (Snapshot{}) {
		t.Fatalf("expected empty snapshot for untouched resource, got %+v", got)
	}
}

func TestRecorderTracksSyncCycles(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSyncCycle("push", time.Second, nil)
	rec.RecordSyncCycle("push", 2*time.Second, errors.New("offline"))
	rec.RecordSyncCycle("pull", time.Second, nil)

	push := rec.SyncSnapshot("push")
	if push.Calls != 2 || push.Errors != 1 || push.LastLatency != 2*time.Second {
		t.Fatalf("unexpected push snapshot %+v", push)
	}
	if pull := rec.SyncSnapshot("pull"); pull.Calls != 1 || pull.Errors != 0 {
		t.Fatalf("unexpected pull snapshot %+v", pull)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordStoreBatch("players", "upsert", 1, time.Millisecond, nil)
	rec.RecordSyncCycle("push", time.Millisecond, nil)
	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	if rec.StoreSnapshot("players") != (Snapshot{}) || rec.SyncSnapshot("push") != (Snapshot{}) {
		t.Fatalf("expected zero snapshots from nil recorder")
	}
}
