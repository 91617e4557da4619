// Package retrylimit retries outbound API calls with exponential backoff
// behind an adaptive rate limiter.
//
//	lim := retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5)
//	err := retrylimit.Do(ctx, retrylimit.DefaultConfig(), lim, func(ctx context.Context) error {
//		return doSomeWork(ctx)
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrAttemptsExceeded is returned, wrapping the last failure, when every attempt failed.
var ErrAttemptsExceeded = errors.New("max attempts exceeded")

// AdaptiveLimiter raises its rate after successes and cuts it after throttling.
type AdaptiveLimiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter starts at initial requests per second, stays within
// [min, max], adds stepUp after a success and multiplies by stepDown when throttled.
func NewAdaptiveLimiter(initial, min, max, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if min < 1 {
		min = 1
	}
	if max < min {
		max = min
	}
	initial = clamp(initial, min, max)
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a token is available or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success raises the rate unless the limiter was throttled recently.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 10*time.Second {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

// Throttled lowers the rate.
func (a *AdaptiveLimiter) Throttled() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// Limit is the current rate in requests per second.
func (a *AdaptiveLimiter) Limit() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(l rate.Limit) {
	l = clamp(l, a.minLimit, a.maxLimit)
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
		a.limiter.SetBurst(burstFor(l))
	}
}

func clamp(l, min, max rate.Limit) rate.Limit {
	if l > max {
		return max
	}
	if l < min {
		return min
	}
	return l
}

func burstFor(l rate.Limit) int {
	if int(l) < 1 {
		return 1
	}
	return int(l)
}

// Outcome tells Do what to do after a failed attempt.
type Outcome int

const (
	// Retry backs off and tries again.
	Retry Outcome = iota
	// Throttle lowers the limiter rate, then retries after RateLimitDelay.
	Throttle
	// Stop returns the error immediately.
	Stop
)

// Classifier maps a failure to an Outcome.
type Classifier func(error) Outcome

// StatusClassifier classifies by HTTP status: 429 throttles, 5xx and unknown
// (status 0) retry, any other status stops. status extracts the code from err.
func StatusClassifier(status func(error) int) Classifier {
	return func(err error) Outcome {
		code := status(err)
		switch {
		case code == http.StatusTooManyRequests:
			return Throttle
		case code == 0, code >= 500 && code < 600:
			return Retry
		}
		return Stop
	}
}

// Config controls Do.
type Config struct {
	// Name identifies the operation in logs.
	Name           string
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	RateLimitDelay time.Duration
	Multiplier     float64
	Jitter         bool
	// Classify defaults to retrying every error.
	Classify Classifier
}

// DefaultConfig is five attempts starting at 500ms and doubling up to 10s.
func DefaultConfig() Config {
	return Config{
		Name:           "request",
		MaxAttempts:    5,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		RateLimitDelay: time.Second,
		Multiplier:     2,
		Jitter:         true,
	}
}

// Do runs fn until it succeeds, the classifier says Stop, ctx is done or
// MaxAttempts is reached. lim may be nil.
func Do(ctx context.Context, cfg Config, lim *AdaptiveLimiter, fn func(context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	if cfg.Classify == nil {
		cfg.Classify = func(error) Outcome { return Retry }
	}

	delay := cfg.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				log.Info().Str("op", cfg.Name).Int("attempt", attempt).Msg("Succeeded after retry")
			}
			return nil
		}
		lastErr = err

		outcome := cfg.Classify(err)
		if outcome == Stop {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := delay
		if outcome == Throttle {
			if lim != nil {
				lim.Throttled()
			}
			wait = cfg.RateLimitDelay
		} else {
			if cfg.Jitter {
				wait = addJitter(wait)
			}
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}

		log.Warn().Err(err).
			Str("op", cfg.Name).
			Int("attempt", attempt).
			Bool("throttled", outcome == Throttle).
			Dur("wait", wait).
			Msg("Attempt failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("%s: %w after %d attempts: %w", cfg.Name, ErrAttemptsExceeded, cfg.MaxAttempts, lastErr)
}

// addJitter adds up to 25% of delay.
func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}
