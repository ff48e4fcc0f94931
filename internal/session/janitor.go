package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fahrtkosten-service/internal/logging"
	"fahrtkosten-service/internal/metrics"
)

const defaultSweepInterval = 5 * time.Minute

// DocumentSweeper applies the document retention window.
type DocumentSweeper interface {
	Sweep() (int, error)
}

// Janitor sweeps idle sessions and expired documents on an interval.
type Janitor struct {
	manager  *Manager
	docs     DocumentSweeper
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the janitor's recent activity.
type Status struct {
	LastSweep      time.Time
	SessionsPruned int
	DocsPruned     int
	LastError      string
}

// NewJanitor constructs a Janitor. docs may be nil when no document
// store is configured.
func NewJanitor(manager *Manager, docs DocumentSweeper, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Janitor{
		manager:  manager,
		docs:     docs,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins sweeping until the context is cancelled or Stop is
// called.
func (j *Janitor) Start(ctx context.Context) {
	j.startMu.Lock()
	if j.started {
		j.startMu.Unlock()
		return
	}
	j.started = true
	j.startMu.Unlock()

	j.ticker = time.NewTicker(j.interval)

	go func() {
		logging.Info(j.logger, "session janitor started",
			slog.Int64(logging.FieldDurationMS, j.interval.Milliseconds()))
		for {
			select {
			case <-ctx.Done():
				j.stopTicker()
				logging.Info(j.logger, "session janitor stopped")
				return
			case <-j.done:
				j.stopTicker()
				logging.Info(j.logger, "session janitor stopped")
				return
			case <-j.ticker.C:
				j.sweepOnce()
			}
		}
	}()
}

// Stop halts the sweep loop.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.done)
		j.stopTicker()
	})
}

// Status returns the most recent sweep outcome.
func (j *Janitor) Status() Status {
	j.statusMu.RLock()
	defer j.statusMu.RUnlock()
	return j.status
}

func (j *Janitor) sweepOnce() {
	start := time.Now()

	sessions := j.manager.PruneIdle()
	docs := 0
	errText := ""
	if j.docs != nil {
		n, err := j.docs.Sweep()
		if err != nil {
			errText = err.Error()
			logging.Error(j.logger, "document sweep failed", err)
		}
		docs = n
	}

	j.metrics.RecordSessionSweep(sessions, time.Since(start))

	j.statusMu.Lock()
	j.status = Status{
		LastSweep:      start,
		SessionsPruned: sessions,
		DocsPruned:     docs,
		LastError:      errText,
	}
	j.statusMu.Unlock()

	if sessions > 0 || docs > 0 {
		logging.Info(j.logger, "swept idle state",
			slog.Int("sessions", sessions),
			slog.Int("documents", docs))
	}
}

func (j *Janitor) stopTicker() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
}
