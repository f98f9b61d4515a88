package trends

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vzahanych/outfit-trends/internal/config"
)

const (
	pinterestPlaceholder  = "Pinterest Item"
	pinterestDefaultQuery = "fashion trends"
	defaultLimit          = 10
)

type PinterestSource struct {
	api   rapidAPIClient
	query string
	limit int
}

type pinterestResponse struct {
	Pins []pinterestPin `json:"pins"`
	Data []pinterestPin `json:"data"`
}

type pinterestPin struct {
	ID        flexString `json:"id"`
	PinID     flexString `json:"pin_id"`
	Title     flexString `json:"title"`
	GridTitle flexString `json:"grid_title"`
	ImageURL  flexString `json:"image_url"`
	Image     flexString `json:"image"`
	Images    struct {
		Orig struct {
			URL string `json:"url"`
		} `json:"orig"`
	} `json:"images"`
}

func NewPinterestSource(cfg config.TrendSourceConfig, client HTTPClient) *PinterestSource {
	if client == nil {
		client = http.DefaultClient
	}

	return &PinterestSource{
		api: rapidAPIClient{
			baseURL: strings.TrimRight(cfg.BaseURL, "/"),
			host:    cfg.Host,
			apiKey:  cfg.APIKey,
			client:  client,
		},
		query: firstNonEmpty(cfg.Params["query"], pinterestDefaultQuery),
		limit: limitOrDefault(cfg.Limit),
	}
}

func (s *PinterestSource) Name() SourceName {
	return Pinterest
}

func (s *PinterestSource) Fetch(ctx context.Context) ([]Item, error) {
	q := url.Values{}
	q.Set("query", s.query)
	q.Set("limit", strconv.Itoa(s.limit))

	var resp pinterestResponse
	if err := s.api.getJSON(ctx, "/search/pins", q, &resp); err != nil {
		return nil, err
	}

	pins := resp.Pins
	if len(pins) == 0 {
		pins = resp.Data
	}
	if len(pins) == 0 {
		return nil, ErrEmptyPayload
	}

	raw := make([]rawItem, 0, len(pins))
	for _, p := range pins {
		raw = append(raw, rawItem{
			ID:       firstNonEmpty(string(p.ID), string(p.PinID)),
			Title:    firstNonEmpty(string(p.Title), string(p.GridTitle)),
			ImageURL: firstNonEmpty(string(p.ImageURL), string(p.Image), p.Images.Orig.URL),
		})
	}

	return normalize(raw, Pinterest, pinterestPlaceholder, s.limit), nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}
