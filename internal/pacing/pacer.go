// Package pacing throttles page actions so a run never drives a widget faster
// than the host application can regenerate its DOM.
package pacing

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/obs"
)

// Config defines the pacing configuration.
type Config struct {
	ActionsPerSecond float64       // Sustained actions per second per widget; <= 0 disables pacing
	Burst            int           // Actions allowed back to back before pacing applies
	IdleTimeout      time.Duration // Limiters unused for this long are dropped
}

// DefaultConfig paces at a rate a human tester could plausibly click.
var DefaultConfig = Config{
	ActionsPerSecond: 10,
	Burst:            5,
	IdleTimeout:      10 * time.Minute,
}

// defaultKey groups actions issued outside any navigator operation.
const defaultKey = "page"

// limiterEntry is shared by readers holding only the read lock, so lastUsed
// (unix nanoseconds) is atomic.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64
}

func (e *limiterEntry) touch() {
	e.lastUsed.Store(time.Now().UnixNano())
}

// Pacer hands out one limiter per widget.
type Pacer struct {
	limiters map[string]*limiterEntry
	mu       sync.RWMutex
	config   Config

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewPacer creates a Pacer and starts its idle-limiter cleanup goroutine.
func NewPacer(config Config) *Pacer {
	if config.Burst <= 0 {
		config.Burst = 1
	}
	p := &Pacer{
		limiters: make(map[string]*limiterEntry),
		config:   config,
		stopCh:   make(chan struct{}),
	}
	if config.IdleTimeout > 0 {
		p.wg.Add(1)
		go p.cleanupLoop()
	}
	return p
}

// Limiter returns the limiter for key, creating one if necessary.
func (p *Pacer) Limiter(key string) *rate.Limiter {
	p.mu.RLock()
	entry, ok := p.limiters[key]
	if ok {
		entry.touch()
		p.mu.RUnlock()
		return entry.limiter
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if entry, ok = p.limiters[key]; ok {
		entry.touch()
		return entry.limiter
	}

	limit := rate.Inf
	if p.config.ActionsPerSecond > 0 {
		limit = rate.Limit(p.config.ActionsPerSecond)
	}
	entry = &limiterEntry{limiter: rate.NewLimiter(limit, p.config.Burst)}
	entry.touch()
	p.limiters[key] = entry
	return entry.limiter
}

// Wait blocks until the widget named in ctx may act again.
func (p *Pacer) Wait(ctx context.Context) error {
	key := obs.CorrelationFromContext(ctx).Widget
	if key == "" {
		key = defaultKey
	}
	if err := p.Limiter(key).Wait(ctx); err != nil {
		return errs.Wrap(errs.Unavailable, "page action paced past deadline", err)
	}
	return nil
}

// Size returns the number of live limiters.
func (p *Pacer) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.limiters)
}

// Cleanup removes limiters idle for longer than IdleTimeout.
func (p *Pacer) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := time.Now().Add(-p.config.IdleTimeout).UnixNano()
	dropped := 0
	for key, entry := range p.limiters {
		if entry.lastUsed.Load() < cutoff {
			delete(p.limiters, key)
			dropped++
		}
	}
	if dropped > 0 {
		obs.Pkg("pacing").Debug("dropped idle limiters", "count", dropped, "live", len(p.limiters))
	}
}

func (p *Pacer) cleanupLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.IdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Cleanup()
		case <-p.stopCh:
			return
		}
	}
}

// Stop stops the cleanup goroutine and waits for it to finish.
func (p *Pacer) Stop() {
	close(p.stopCh)
	p.wg.Wait()
}
