// Package trends fetches ranked fashion trend lists from social providers and
// normalizes them into Item values.
package trends

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/vzahanych/outfit-trends/internal/config"
)

// ErrTrendSourceDegraded marks an Outcome whose source contributed nothing.
var ErrTrendSourceDegraded = errors.New("trend source degraded")

// ErrEmptyPayload is returned by sources whose provider answered with no items.
var ErrEmptyPayload = errors.New("provider returned no items")

type SourceName string

const (
	Pinterest SourceName = "Pinterest"
	TikTok    SourceName = "TikTok"
)

// Item is the provider-independent shape of one trend.
type Item struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	ImageURL string     `json:"image"`
	Source   SourceName `json:"source"`
}

// Source is one trend provider. Fetch may fail; callers that need the
// best-effort contract wrap it in an Adapter.
type Source interface {
	Name() SourceName
	Fetch(ctx context.Context) ([]Item, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewSource builds the source registered for cfg.Type.
func NewSource(cfg config.TrendSourceConfig, client HTTPClient) (Source, error) {
	switch cfg.Type {
	case "pinterest":
		return NewPinterestSource(cfg, client), nil
	case "tiktok":
		return NewTikTokSource(cfg, client), nil
	default:
		return nil, fmt.Errorf("unknown trend source type %q", cfg.Type)
	}
}

// rawItem is what every provider mapping reduces its native record to.
type rawItem struct {
	ID       string
	Title    string
	ImageURL string
}

// normalize converts raw records to Items, substituting placeholder for a
// missing title and a fresh UUID for a missing id. Order is preserved.
func normalize(raw []rawItem, source SourceName, placeholder string, limit int) []Item {
	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		item := Item{
			ID:       r.ID,
			Name:     r.Title,
			ImageURL: r.ImageURL,
			Source:   source,
		}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.Name == "" {
			item.Name = placeholder
		}
		items = append(items, item)
	}

	return items
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
