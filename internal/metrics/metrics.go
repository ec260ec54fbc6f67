package metrics

import (
	"sync"
	"time"
)

type opStats struct {
	calls       int
	errors      int
	records     int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory counters for table-store batches and
// sync cycles, and forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu    sync.Mutex
	store map[string]*opStats
	sync  map[string]*opStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		store: make(map[string]*opStats),
		sync:  make(map[string]*opStats),
		otel:  otel,
	}
}

// RecordStoreBatch counts one table-store operation on resource touching count records.
func (r *Recorder) RecordStoreBatch(resource, op string, count int, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := ensure(r.store, resource)
	stats.calls++
	stats.records += count
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreBatch(resource, op, count, duration, err)
	}
}

// RecordSyncCycle counts one push or pull.
func (r *Recorder) RecordSyncCycle(direction string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := ensure(r.sync, direction)
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSync(direction, duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the counters kept for one resource or sync direction.
type Snapshot struct {
	Calls       int
	Errors      int
	Records     int
	LastLatency time.Duration
}

// StoreSnapshot returns the batch counters for a table-store resource.
func (r *Recorder) StoreSnapshot(resource string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshotOf(r.store[resource])
}

// SyncSnapshot returns the cycle counters for "push" or "pull".
func (r *Recorder) SyncSnapshot(direction string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshotOf(r.sync[direction])
}

func ensure(m map[string]*opStats, key string) *opStats {
	stats, ok := m[key]
	if !ok {
		stats = &opStats{}
		m[key] = stats
	}
	return stats
}

func snapshotOf(stats *opStats) Snapshot {
	if stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:       stats.calls,
		Errors:      stats.errors,
		Records:     stats.records,
		LastLatency: stats.lastLatency,
	}
}
