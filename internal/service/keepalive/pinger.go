// Package keepalive pings the deployment's health endpoint so hosted
// instances are not put to sleep between farm visits.
package keepalive

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/config"
)

// Pinger issues GET requests against a health URL and tracks consecutive failures.
type Pinger struct {
	http      *resty.Client
	url       string
	threshold int
	logger    *zap.Logger

	mu       sync.Mutex
	failures int
}

// NewPinger builds a pinger from the keep-alive configuration.
func NewPinger(cfg config.KeepAliveConfig, logger *zap.Logger) *Pinger {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	threshold := cfg.FailureThreshold
	if threshold < 1 {
		threshold = 3
	}
	return &Pinger{
		http:      resty.New().SetTimeout(timeout),
		url:       cfg.URL,
		threshold: threshold,
		logger:    logger,
	}
}

// Ping performs one health request. Any non-2xx status counts as a failure.
// The pinger keeps running no matter how many pings fail.
func (p *Pinger) Ping(ctx context.Context) error {
	start := time.Now()
	resp, err := p.http.R().SetContext(ctx).Get(p.url)
	if err == nil && !resp.IsSuccess() {
		err = fmt.Errorf("keep-alive ping returned status %d", resp.StatusCode())
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.failures++
		fields := []zap.Field{zap.String("url", p.url), zap.Int("consecutive_failures", p.failures), zap.Error(err)}
		if p.failures >= p.threshold {
			p.logger.Warn("keep-alive ping keeps failing", fields...)
		} else {
			p.logger.Debug("keep-alive ping failed", fields...)
		}
		return err
	}

	if p.failures > 0 {
		p.logger.Info("keep-alive ping recovered", zap.String("url", p.url), zap.Int("after_failures", p.failures))
	}
	p.failures = 0
	p.logger.Debug("keep-alive ping ok", zap.String("url", p.url), zap.Duration("duration", time.Since(start)))
	return nil
}

// Failures returns the current count of consecutive failed pings.
func (p *Pinger) Failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}
