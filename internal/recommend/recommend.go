// Package recommend turns the current weather and trend items into outfit
// suggestions using a text generation model.
package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vzahanych/outfit-trends/internal/trends"
	"github.com/vzahanych/outfit-trends/internal/weather"
	"github.com/vzahanych/outfit-trends/pkg/logger"
	"github.com/vzahanych/outfit-trends/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	ErrGenerationFailed = errors.New("outfit generation failed")
	ErrNoOutfits        = errors.New("model returned no outfits")
)

const outfitsPerRequest = 3

type Outfit struct {
	Name          string   `json:"outfit_name"`
	Description   string   `json:"description"`
	StyleKeywords []string `json:"style_keywords"`
}

// Generator is a text completion backend, see ClaudeClient.
type Generator interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Service struct {
	gen       Generator
	maxTrends int
	logger    *zap.Logger
	tele      *telemetry.Telemetry
}

// NewService caps the prompt at maxTrends items; zero or less sends them all.
func NewService(gen Generator, maxTrends int, logger *zap.Logger, tele *telemetry.Telemetry) *Service {
	return &Service{
		gen:       gen,
		maxTrends: maxTrends,
		logger:    logger,
		tele:      tele,
	}
}

func (s *Service) Recommend(ctx context.Context, location string, reading weather.Reading, units weather.Units, items []trends.Item) ([]Outfit, error) {
	ctx, span := s.tele.GetTracer().Start(ctx, "recommend.Recommend")
	defer span.End()

	if s.maxTrends > 0 && len(items) > s.maxTrends {
		items = items[:s.maxTrends]
	}
	span.SetAttributes(
		attribute.String("location", location),
		attribute.Int("trends_count", len(items)),
	)

	reqLogger := logger.FromContext(ctx, s.logger)

	reply, err := s.gen.Complete(ctx, systemPrompt, buildPrompt(location, reading, units, items))
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		s.tele.RecordError(ctx, err)
		reqLogger.Warn("Outfit generation failed", zap.Error(err))
		return nil, err
	}

	outfits, err := parseOutfits(reply)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		s.tele.RecordError(ctx, err)
		reqLogger.Warn("Could not parse outfit suggestions", zap.Error(err), zap.Int("reply_len", len(reply)))
		return nil, err
	}

	span.SetAttributes(attribute.Int("outfits_count", len(outfits)))
	return outfits, nil
}

func buildPrompt(location string, reading weather.Reading, units weather.Units, items []trends.Item) string {
	symbol := "F"
	if units == weather.Metric {
		symbol = "C"
	}

	description := reading.Description
	if description == "" {
		description = reading.Condition
	}

	var list strings.Builder
	if len(items) == 0 {
		list.WriteString("- none available\n")
	}
	for _, item := range items {
		fmt.Fprintf(&list, "- %s (%s)\n", item.Name, item.Source)
	}

	return fmt.Sprintf(outfitPrompt, location, reading.Temperature, symbol, description,
		strings.TrimRight(list.String(), "\n"), outfitsPerRequest)
}

// parseOutfits accepts a bare JSON array, an {"outfits": [...]} object, or
// either of those surrounded by prose or code fences.
func parseOutfits(reply string) ([]Outfit, error) {
	var outfits []Outfit

	start := strings.IndexAny(reply, "[{")
	if start == -1 {
		return nil, errors.New("no JSON found in reply")
	}

	dec := json.NewDecoder(strings.NewReader(reply[start:]))
	if reply[start] == '[' {
		if err := dec.Decode(&outfits); err != nil {
			return nil, fmt.Errorf("decode outfits: %w", err)
		}
	} else {
		var wrapped struct {
			Outfits []Outfit `json:"outfits"`
		}
		if err := dec.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("decode outfits: %w", err)
		}
		outfits = wrapped.Outfits
	}

	kept := outfits[:0]
	for _, o := range outfits {
		if strings.TrimSpace(o.Name) == "" {
			continue
		}
		if o.StyleKeywords == nil {
			o.StyleKeywords = []string{}
		}
		kept = append(kept, o)
	}
	if len(kept) == 0 {
		return nil, ErrNoOutfits
	}

	return kept, nil
}
