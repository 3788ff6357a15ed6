// Package health tracks reachability of the backing stores. Guards consume
// the tri-state status: checking until the first probe completes, then
// connected or disconnected.
package health

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/brisa-erp/brisa-erp/internal/authz"
)

// Prober pings postgres and redis on an interval and publishes the combined
// status. A single failing store marks the backend disconnected: sessions
// and permissions both need their store to serve a request.
type Prober struct {
	pool     *pgxpool.Pool
	client   *redis.Client
	logger   *slog.Logger
	interval time.Duration
	timeout  time.Duration
	status   atomic.Value
	kick     chan struct{}
}

// NewProber constructs a Prober. Status starts as checking until the first
// probe finishes.
func NewProber(pool *pgxpool.Pool, client *redis.Client, logger *slog.Logger, interval, timeout time.Duration) *Prober {
	p := &Prober{
		pool:     pool,
		client:   client,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
		kick:     make(chan struct{}, 1),
	}
	p.status.Store(authz.StatusChecking)
	return p
}

// Status returns the last published connection status.
func (p *Prober) Status() authz.ConnStatus {
	return p.status.Load().(authz.ConnStatus)
}

// Retry requests an immediate re-probe. It never blocks; a pending request
// coalesces with the next probe.
func (p *Prober) Retry() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Run probes until the context is cancelled.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probe(ctx)
		case <-p.kick:
			p.probe(ctx)
		}
	}
}

func (p *Prober) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	if p.pool != nil {
		g.Go(func() error { return p.pool.Ping(ctx) })
	}
	if p.client != nil {
		g.Go(func() error { return p.client.Ping(ctx).Err() })
	}

	next := authz.StatusConnected
	if err := g.Wait(); err != nil {
		next = authz.StatusDisconnected
		if p.logger != nil {
			p.logger.Warn("backend probe failed", slog.Any("error", err))
		}
	}
	prev := p.Status()
	p.status.Store(next)
	if p.logger != nil && prev != next {
		p.logger.Info("connection status changed", slog.String("from", string(prev)), slog.String("to", string(next)))
	}
}

var _ authz.StatusSource = (*Prober)(nil)
