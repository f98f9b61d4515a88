package weather

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"github.com/vzahanych/outfit-trends/internal/config"
	"go.uber.org/zap"
)

// BreakerProvider stops calling a provider that keeps failing. Rejected calls
// are reported as ErrWeatherUnavailable like any other failure.
type BreakerProvider struct {
	cb      *gobreaker.CircuitBreaker
	wrapped Provider
}

func NewBreakerProvider(cfg config.BreakerConfig, wrapped Provider, logger *zap.Logger) *BreakerProvider {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 1
	}

	settings := gobreaker.Settings{
		Name:        wrapped.Name(),
		MaxRequests: 1,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// bad input says nothing about provider health
			return err == nil || errors.Is(err, ErrInvalidQuery)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Weather circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &BreakerProvider{
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerProvider) Name() string {
	return b.wrapped.Name()
}

func (b *BreakerProvider) Lookup(ctx context.Context, location string, units Units) (Reading, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Lookup(ctx, location, units)
	})
	if err != nil {
		if errors.Is(err, ErrWeatherUnavailable) {
			return Reading{}, err
		}
		return Reading{}, &UnavailableError{Provider: b.Name(), Location: location, Err: err}
	}

	return result.(Reading), nil
}

func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}
