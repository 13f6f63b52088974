package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/portosite/backend/internal/domain"
)

// DefaultPollInterval matches the dashboard's polling cadence.
const DefaultPollInterval = 5 * time.Second

// maxBackoffFactor bounds the exponential backoff applied after repeated
// fetch failures.
const maxBackoffFactor = 8

// Fetcher is the pull side of the collaborator contract, satisfied by
// *Client.
type Fetcher interface {
	List(ctx context.Context) ([]*domain.Notification, error)
}

// Poller maintains the authoritative local notification list by re-fetching
// the full list on a fixed interval and diffing it against the previous
// snapshot. It is the delivery guarantee of the subsystem: even if the push
// channel never delivers, every notification reaches the store within one
// interval.
type Poller struct {
	fetcher  Fetcher
	store    *Store
	surfacer Surfacer
	interval time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	failures int
}

// NewPoller creates a poller. interval <= 0 falls back to
// DefaultPollInterval; surfacer may be nil when no alerts are wanted.
func NewPoller(fetcher Fetcher, store *Store, surfacer Surfacer, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		fetcher:  fetcher,
		store:    store,
		surfacer: surfacer,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the polling loop. The first fetch is issued immediately, not
// after the first interval. Starting a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx, p.done)
}

// Stop cancels the pending timer and waits for the loop to exit. A fetch
// already in flight is discarded, never applied after Stop returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		p.tick(ctx)
		timer.Reset(p.delay())
	}
}

// tick performs one fetch-and-reconcile. Failures are logged and leave the
// local list untouched; the loop retries on the next timer fire.
func (p *Poller) tick(ctx context.Context) {
	fetched, err := p.fetcher.List(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.failures++
		p.logger.Warn("notification fetch failed", zap.Int("consecutive_failures", p.failures), zap.Error(err))
		return
	}

	// The poller may have been stopped while the fetch was in flight; its
	// result must not be applied to a stopped session's state.
	if ctx.Err() != nil {
		return
	}
	p.failures = 0

	for _, n := range p.store.Reconcile(fetched) {
		if p.surfacer != nil {
			p.surfacer.Surface(n)
		}
	}
}

// delay returns the wait before the next tick: the fixed interval, widened
// by bounded exponential backoff while fetches keep failing.
func (p *Poller) delay() time.Duration {
	factor := 1
	for i := 0; i < p.failures && factor < maxBackoffFactor; i++ {
		factor *= 2
	}
	return p.interval * time.Duration(factor)
}
