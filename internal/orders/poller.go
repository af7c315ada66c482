package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/feastlyhq/feastly-backend/pkg/logger"
	"github.com/feastlyhq/feastly-backend/pkg/metrics"
)

const (
	defaultPollInterval = 15 * time.Second
	pollJobName         = "orders_poll"
)

// PollFunc receives the tick that should refresh order state downstream.
type PollFunc func(ctx context.Context) error

// PollerParams configure the order poller.
type PollerParams struct {
	Logger   *logger.Logger
	Metrics  *metrics.JobMetrics
	Interval time.Duration
	Fn       PollFunc
}

// Poller invokes a refresh callback on a fixed cadence until stopped. After
// Stop returns the callback is never invoked again.
type Poller struct {
	logg     *logger.Logger
	metrics  *metrics.JobMetrics
	interval time.Duration
	fn       PollFunc

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller builds an order poller.
func NewPoller(params PollerParams) (*Poller, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Fn == nil {
		return nil, fmt.Errorf("poll callback required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		logg:     params.Logger,
		metrics:  params.Metrics,
		interval: interval,
		fn:       params.Fn,
	}, nil
}

// Start launches the polling loop. Calling Start on a running poller is a
// no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(runCtx, p.done)
}

// Stop cancels the loop and waits for the in-flight tick to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logg.Info(ctx, "order poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	err := p.fn(ctx)
	if p.metrics != nil {
		p.metrics.ObserveDuration(pollJobName, time.Since(start))
	}
	if err != nil {
		if p.metrics != nil {
			p.metrics.IncFailure(pollJobName)
		}
		p.logg.Error(ctx, "order poll failed", err)
		return
	}
	if p.metrics != nil {
		p.metrics.IncSuccess(pollJobName)
	}
}
