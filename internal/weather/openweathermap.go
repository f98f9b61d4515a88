package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vzahanych/outfit-trends/internal/config"
	"github.com/vzahanych/outfit-trends/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const maxErrorBody = 512

type OpenWeatherMapService struct {
	baseURL string
	apiKey  string
	client  HTTPClient
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

type owmResponse struct {
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Message string `json:"message"`
}

func NewOpenWeatherMapServiceWithConfig(cfg config.WeatherConfig, client HTTPClient, logger *zap.Logger, tele *telemetry.Telemetry) *OpenWeatherMapService {
	if client == nil {
		client = &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		}
	}

	return &OpenWeatherMapService{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  client,
		logger:  logger,
		tele:    tele,
	}
}

func (s *OpenWeatherMapService) Name() string {
	return "openweathermap"
}

func (s *OpenWeatherMapService) Lookup(ctx context.Context, location string, units Units) (Reading, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "openweathermap.Lookup")
	defer span.End()

	location = strings.TrimSpace(location)
	span.SetAttributes(
		attribute.String("location", location),
		attribute.String("units", string(units)),
	)

	reading, err := s.lookup(ctx, location, units)
	if err != nil {
		uerr := &UnavailableError{Provider: s.Name(), Location: location, Err: err}
		s.tele.RecordError(ctx, uerr)
		s.logger.Warn("Weather lookup failed",
			zap.String("location", location),
			zap.String("units", string(units)),
			zap.Error(err))
		return Reading{}, uerr
	}

	span.SetAttributes(
		attribute.Float64("temperature", reading.Temperature),
		attribute.String("condition", reading.Condition),
	)

	s.logger.Debug("Weather lookup completed",
		zap.String("location", location),
		zap.Float64("temperature", reading.Temperature),
		zap.String("condition", reading.Condition))

	return reading, nil
}

func (s *OpenWeatherMapService) lookup(ctx context.Context, location string, units Units) (Reading, error) {
	if location == "" {
		return Reading{}, fmt.Errorf("%w: location is required", ErrInvalidQuery)
	}
	if _, err := ParseUnits(string(units)); err != nil {
		return Reading{}, err
	}

	u, err := url.Parse(fmt.Sprintf("%s/weather", s.baseURL))
	if err != nil {
		return Reading{}, err
	}

	q := u.Query()
	if IsPostalCode(location) {
		q.Set("zip", location)
	} else {
		q.Set("q", location)
	}
	q.Set("units", string(units))
	q.Set("appid", s.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Reading{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Reading{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var apiErr owmResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			err = fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, apiErr.Message)
		} else {
			err = fmt.Errorf("API request failed with status: %d", resp.StatusCode)
		}
		// OWM answers 404 for unknown places and 400 for malformed zips.
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
			return Reading{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}
		return Reading{}, err
	}

	var result owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Reading{}, fmt.Errorf("decode response: %w", err)
	}

	return result.toReading()
}

func (r owmResponse) toReading() (Reading, error) {
	if r.Main.Temp == nil {
		return Reading{}, errors.New("response has no main.temp")
	}
	temp := *r.Main.Temp
	if math.IsNaN(temp) || math.IsInf(temp, 0) {
		return Reading{}, fmt.Errorf("temperature %v is not finite", temp)
	}
	if len(r.Weather) == 0 {
		return Reading{}, errors.New("response has no weather conditions")
	}

	return Reading{
		Temperature: temp,
		Condition:   strings.ToLower(r.Weather[0].Main),
		Description: r.Weather[0].Description,
	}, nil
}
