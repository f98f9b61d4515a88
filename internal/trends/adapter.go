package trends

import (
	"context"
	"fmt"
	"time"

	"github.com/vzahanych/outfit-trends/internal/config"
	"github.com/vzahanych/outfit-trends/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Outcome is the result of one best-effort fetch. When Degraded is set,
// Items is empty and Degraded wraps ErrTrendSourceDegraded.
type Outcome struct {
	Source   SourceName
	Items    []Item
	Degraded error
}

func (o Outcome) OK() bool {
	return o.Degraded == nil
}

// Adapter turns a fallible Source into one that never fails the caller.
type Adapter struct {
	source  Source
	limiter *rate.Limiter
	timeout time.Duration
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewAdapter(source Source, timeout time.Duration, rl config.RateLimitConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Adapter {
	a := &Adapter{
		source:  source,
		timeout: timeout,
		logger:  logger.With(zap.String("source", string(source.Name()))),
		tele:    tele,
	}

	if rl.RPS > 0 {
		burst := rl.Burst
		if burst <= 0 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(rl.RPS), burst)
	}

	return a
}

func (a *Adapter) Name() SourceName {
	return a.source.Name()
}

func (a *Adapter) Fetch(ctx context.Context) Outcome {
	ctx, span := a.tele.GetTracer().Start(ctx, "trends.Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("source", string(a.source.Name())))

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	items, err := a.fetch(ctx)
	if err != nil {
		degraded := fmt.Errorf("%w: %s: %w", ErrTrendSourceDegraded, a.source.Name(), err)
		a.tele.RecordError(ctx, degraded)
		a.logger.Warn("Trend source degraded, continuing without it", zap.Error(err))
		return Outcome{Source: a.source.Name(), Items: []Item{}, Degraded: degraded}
	}

	span.SetAttributes(attribute.Int("items", len(items)))
	a.logger.Debug("Trend source fetched", zap.Int("items", len(items)))

	return Outcome{Source: a.source.Name(), Items: items}
}

func (a *Adapter) fetch(ctx context.Context) ([]Item, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	items, err := a.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyPayload
	}

	return items, nil
}
