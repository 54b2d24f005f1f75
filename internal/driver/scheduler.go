package driver

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultFPS approximates a display refresh.
const DefaultFPS = 60

// Scheduler is the yield point between iterations.
type Scheduler interface {
	Wait(ctx context.Context) error
}

// TickerScheduler yields until the next tick of a fixed-rate clock.
type TickerScheduler struct {
	ticker *time.Ticker
}

func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &TickerScheduler{ticker: time.NewTicker(time.Second / time.Duration(fps))}
}

func (s *TickerScheduler) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ticker.C:
		return nil
	}
}

func (s *TickerScheduler) Stop() {
	s.ticker.Stop()
}

// LimiterScheduler paces iterations with a single-token bucket.
type LimiterScheduler struct {
	lim *rate.Limiter
}

func NewLimiterScheduler(fps float64) *LimiterScheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &LimiterScheduler{lim: rate.NewLimiter(rate.Limit(fps), 1)}
}

func (s *LimiterScheduler) Wait(ctx context.Context) error {
	return s.lim.Wait(ctx)
}

// Immediate never waits. Headless rendering and tests use it to run the
// loop as fast as the CPU allows.
type Immediate struct{}

func (Immediate) Wait(ctx context.Context) error {
	return ctx.Err()
}
