package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vzahanych/outfit-trends/internal/config"
	"github.com/vzahanych/outfit-trends/internal/relevance"
	"github.com/vzahanych/outfit-trends/internal/trends"
	"github.com/vzahanych/outfit-trends/internal/weather"
	"github.com/vzahanych/outfit-trends/pkg/logger"
	"github.com/vzahanych/outfit-trends/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the payload of one aggregation. Degraded lists the sources that
// contributed nothing; it is diagnostic only and never serialized.
type Result struct {
	Location string              `json:"-"`
	Weather  weather.Reading     `json:"weather"`
	Trends   []trends.Item       `json:"trends"`
	Degraded []trends.SourceName `json:"-"`
}

// TrendFetcher is a best-effort trend source, see trends.Adapter.
type TrendFetcher interface {
	Name() trends.SourceName
	Fetch(ctx context.Context) trends.Outcome
}

// MetricsRecorder interface for recording metrics
type MetricsRecorder interface {
	RecordWeatherLookup(ok bool)
	RecordSourceOutcome(source string, ok bool, fetched, kept int)
	ObserveAggregation(d time.Duration)
}

type Options struct {
	Units           weather.Units
	DefaultLocation string
	WeatherTimeout  time.Duration
}

type Aggregator struct {
	weather         weather.Provider
	sources         []TrendFetcher
	units           weather.Units
	filter          relevance.Filter
	defaultLocation string
	weatherTimeout  time.Duration
	logger          *zap.Logger
	tele            *telemetry.Telemetry
	metrics         MetricsRecorder
}

// New wires an aggregator from already built collaborators. Sources are
// merged in the order given.
func New(provider weather.Provider, sources []TrendFetcher, opts Options, logger *zap.Logger, tele *telemetry.Telemetry) *Aggregator {
	return &Aggregator{
		weather:         provider,
		sources:         sources,
		units:           opts.Units,
		filter:          relevance.ForUnits(opts.Units),
		defaultLocation: opts.DefaultLocation,
		weatherTimeout:  opts.WeatherTimeout,
		logger:          logger,
		tele:            tele,
	}
}

// NewAggregator builds the weather provider and trend sources described by cfg.
// client may be nil, in which case each collaborator uses its own http.Client.
func NewAggregator(cfg *config.Config, client *http.Client, logger *zap.Logger, tele *telemetry.Telemetry) (*Aggregator, error) {
	units, err := weather.ParseUnits(cfg.Weather.Units)
	if err != nil {
		return nil, err
	}

	var weatherClient weather.HTTPClient
	if client != nil {
		weatherClient = client
	}
	var provider weather.Provider = weather.NewOpenWeatherMapServiceWithConfig(cfg.Weather, weatherClient, logger, tele)
	if cfg.Weather.Breaker.Enabled {
		provider = weather.NewBreakerProvider(cfg.Weather.Breaker, provider, logger)
	}

	trendTimeout := time.Duration(cfg.Trends.Timeout) * time.Second

	var sources []TrendFetcher
	for _, name := range cfg.Trends.Order {
		srcCfg := cfg.Trends.Sources[name]
		if !srcCfg.Enabled {
			continue
		}

		var trendClient trends.HTTPClient
		if client != nil {
			trendClient = client
		} else {
			trendClient = &http.Client{Timeout: trendTimeout}
		}

		src, err := trends.NewSource(srcCfg, trendClient)
		if err != nil {
			return nil, fmt.Errorf("trend source %q: %w", name, err)
		}

		sources = append(sources, trends.NewAdapter(src, trendTimeout, srcCfg.RateLimit, logger, tele))
		logger.Info("Registered trend source", zap.String("source", name), zap.String("type", srcCfg.Type))
	}

	return New(provider, sources, Options{
		Units:           units,
		DefaultLocation: cfg.Weather.DefaultLocation,
		WeatherTimeout:  time.Duration(cfg.Weather.Timeout) * time.Second,
	}, logger, tele), nil
}

// SetMetricsRecorder sets the metrics recorder for the aggregator
func (a *Aggregator) SetMetricsRecorder(metrics MetricsRecorder) {
	a.metrics = metrics
}

func (a *Aggregator) Units() weather.Units {
	return a.units
}

func (a *Aggregator) SourceNames() []string {
	names := make([]string, 0, len(a.sources))
	for _, s := range a.sources {
		names = append(names, string(s.Name()))
	}
	return names
}

// FetchTrends looks up the weather at location and returns the trend items
// that suit it. Weather failures abort the call; trend source failures only
// shrink the list.
func (a *Aggregator) FetchTrends(ctx context.Context, location string) (*Result, error) {
	start := time.Now()

	location = strings.TrimSpace(location)
	if location == "" {
		location = a.defaultLocation
	}

	ctx, span := a.tele.GetTracer().Start(ctx, "aggregator.FetchTrends")
	defer span.End()
	span.SetAttributes(
		attribute.String("location", location),
		attribute.Int("sources_count", len(a.sources)),
	)

	reqLogger := logger.FromContext(ctx, a.logger).With(zap.String("location", location))
	reqLogger.Debug("Aggregation started", zap.Strings("sources", a.SourceNames()))

	var (
		reading  weather.Reading
		outcomes = make([]trends.Outcome, len(a.sources))
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		wctx := gctx
		if a.weatherTimeout > 0 {
			var cancel context.CancelFunc
			wctx, cancel = context.WithTimeout(gctx, a.weatherTimeout)
			defer cancel()
		}

		r, err := a.weather.Lookup(wctx, location, a.units)
		if err != nil {
			return err
		}
		reading = r
		return nil
	})

	for i, src := range a.sources {
		i, src := i, src
		g.Go(func() error {
			outcomes[i] = src.Fetch(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.recordWeather(false)
		a.tele.RecordError(ctx, err)
		reqLogger.Error("Aggregation failed, weather unavailable", zap.Error(err))
		return nil, err
	}
	a.recordWeather(true)

	result := &Result{
		Location: location,
		Weather:  reading,
		Trends:   make([]trends.Item, 0),
	}

	for _, out := range outcomes {
		kept := a.filter.Apply(out.Items, reading.Temperature)
		result.Trends = append(result.Trends, kept...)

		if !out.OK() {
			result.Degraded = append(result.Degraded, out.Source)
		}
		if a.metrics != nil {
			a.metrics.RecordSourceOutcome(string(out.Source), out.OK(), len(out.Items), len(kept))
		}
	}

	if a.metrics != nil {
		a.metrics.ObserveAggregation(time.Since(start))
	}

	span.SetAttributes(
		attribute.Float64("temperature", reading.Temperature),
		attribute.Int("trends_count", len(result.Trends)),
		attribute.Int("degraded_sources", len(result.Degraded)),
	)

	reqLogger.Info("Aggregation completed",
		zap.Float64("temperature", reading.Temperature),
		zap.String("condition", reading.Condition),
		zap.Int("trends_count", len(result.Trends)),
		zap.Int("degraded_sources", len(result.Degraded)))

	return result, nil
}

// LookupWeather resolves only the weather part, with the configured default
// location and timeout. units overrides the aggregator's unit system when set.
func (a *Aggregator) LookupWeather(ctx context.Context, location string, units weather.Units) (weather.Reading, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		location = a.defaultLocation
	}
	if units == "" {
		units = a.units
	}

	if a.weatherTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.weatherTimeout)
		defer cancel()
	}

	reading, err := a.weather.Lookup(ctx, location, units)
	a.recordWeather(err == nil)
	return reading, err
}

func (a *Aggregator) recordWeather(ok bool) {
	if a.metrics != nil {
		a.metrics.RecordWeatherLookup(ok)
	}
}
