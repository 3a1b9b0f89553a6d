package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper is anything that can evict its expired entries
type Sweeper interface {
	Sweep() int
}

// Janitor periodically sweeps a cache. It only bounds memory; freshness is
// always re-checked by the cache on read.
type Janitor struct {
	sweeper  Sweeper
	interval time.Duration
	ticks    <-chan time.Time
	logger   *zap.Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// JanitorOption configures a Janitor
type JanitorOption func(*Janitor)

// WithTicks drives the janitor from ch instead of a wall-clock ticker
func WithTicks(ch <-chan time.Time) JanitorOption {
	return func(j *Janitor) {
		j.ticks = ch
	}
}

// NewJanitor creates a janitor sweeping every interval
func NewJanitor(sweeper Sweeper, interval time.Duration, logger *zap.Logger, opts ...JanitorOption) *Janitor {
	j := &Janitor{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Start launches the background sweep. Calling Start twice is a no-op.
func (j *Janitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return
	}

	j.stopCh = make(chan struct{})
	j.doneCh = make(chan struct{})
	j.running = true

	ticks := j.ticks
	var ticker *time.Ticker
	if ticks == nil {
		ticker = time.NewTicker(j.interval)
		ticks = ticker.C
	}

	j.logger.Info("Cache janitor started", zap.Duration("interval", j.interval))
	go j.loop(ticks, ticker, j.stopCh, j.doneCh)
}

func (j *Janitor) loop(ticks <-chan time.Time, ticker *time.Ticker, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	if ticker != nil {
		defer ticker.Stop()
	}

	for {
		select {
		case <-ticks:
			j.RunOnce()
		case <-stopCh:
			return
		}
	}
}

// RunOnce performs a single sweep
func (j *Janitor) RunOnce() int {
	return j.sweeper.Sweep()
}

// Stop ends the background sweep and waits for it to exit
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	close(j.stopCh)
	doneCh := j.doneCh
	j.mu.Unlock()

	<-doneCh
	j.logger.Info("Cache janitor stopped")
}
