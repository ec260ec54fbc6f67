package cloudsync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/courtside/internal/logging"
)

const defaultAutoPushInterval = 5 * time.Minute

// Pusher is anything that can push local data.
type Pusher interface {
	Push(ctx context.Context) error
}

// AutoPusher pushes on an interval until stopped.
type AutoPusher struct {
	pusher   Pusher
	clock    clock.Clock
	logger   *slog.Logger
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   LoopStatus
}

// LoopStatus describes the recent health of the push loop.
type LoopStatus struct {
	Cycles              int
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// NewAutoPusher constructs a loop; a non-positive interval uses the default.
// clk stamps LastAttempt and LastSuccess; nil means the wall clock.
func NewAutoPusher(pusher Pusher, clk clock.Clock, logger *slog.Logger, interval time.Duration) *AutoPusher {
	if interval <= 0 {
		interval = defaultAutoPushInterval
	}
	if clk == nil {
		clk = clock.New()
	}
	return &AutoPusher{
		pusher:   pusher,
		clock:    clk,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Start pushes once immediately, then on every tick until ctx is done or Stop is called.
func (a *AutoPusher) Start(ctx context.Context) {
	a.startMu.Lock()
	if a.started {
		a.startMu.Unlock()
		return
	}
	a.started = true
	a.startMu.Unlock()

	a.ticker = time.NewTicker(a.interval)

	go func() {
		defer close(a.exited)
		logging.Info(a.logger, "auto-push started", logging.FieldDurationMS, a.interval.Milliseconds())
		a.pushOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				a.ticker.Stop()
				logging.Info(a.logger, "auto-push stopped")
				return
			case <-a.done:
				a.ticker.Stop()
				logging.Info(a.logger, "auto-push stopped")
				return
			case <-a.ticker.C:
				a.pushOnce(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight push, bounded by ctx.
func (a *AutoPusher) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() { close(a.done) })

	a.startMu.Lock()
	started := a.started
	a.startMu.Unlock()
	if !started {
		return nil
	}
	select {
	case <-a.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AutoPusher) pushOnce(ctx context.Context) {
	at := a.clock.Now()
	err := a.pusher.Push(ctx)

	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.status.Cycles++
	a.status.LastAttempt = at
	if err != nil {
		a.status.ConsecutiveFailures++
		a.status.LastError = err.Error()
		return
	}
	a.status.ConsecutiveFailures = 0
	a.status.LastError = ""
	a.status.LastSuccess = at
}

// Status returns a snapshot of the loop's recent health.
func (a *AutoPusher) Status() LoopStatus {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.status
}
