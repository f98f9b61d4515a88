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
	tiktokPlaceholder   = "TikTok Trend"
	tiktokDefaultRegion = "US"
)

type TikTokSource struct {
	api    rapidAPIClient
	region string
	limit  int
}

type tiktokResponse struct {
	Trends []tiktokItem `json:"trends"`
	Items  []tiktokItem `json:"items"`
	Data   []tiktokItem `json:"data"`
}

type tiktokItem struct {
	ID       flexString `json:"id"`
	AwemeID  flexString `json:"aweme_id"`
	Title    flexString `json:"title"`
	Desc     flexString `json:"desc"`
	ImageURL flexString `json:"image_url"`
	Cover    flexString `json:"cover"`
	Video    struct {
		Cover flexString `json:"cover"`
	} `json:"video"`
}

func NewTikTokSource(cfg config.TrendSourceConfig, client HTTPClient) *TikTokSource {
	if client == nil {
		client = http.DefaultClient
	}

	return &TikTokSource{
		api: rapidAPIClient{
			baseURL: strings.TrimRight(cfg.BaseURL, "/"),
			host:    cfg.Host,
			apiKey:  cfg.APIKey,
			client:  client,
		},
		region: firstNonEmpty(cfg.Params["region"], tiktokDefaultRegion),
		limit:  limitOrDefault(cfg.Limit),
	}
}

func (s *TikTokSource) Name() SourceName {
	return TikTok
}

func (s *TikTokSource) Fetch(ctx context.Context) ([]Item, error) {
	q := url.Values{}
	q.Set("region", s.region)
	q.Set("count", strconv.Itoa(s.limit))

	var resp tiktokResponse
	if err := s.api.getJSON(ctx, "/trending", q, &resp); err != nil {
		return nil, err
	}

	var records []tiktokItem
	for _, candidate := range [][]tiktokItem{resp.Trends, resp.Items, resp.Data} {
		if len(candidate) > 0 {
			records = candidate
			break
		}
	}
	if len(records) == 0 {
		return nil, ErrEmptyPayload
	}

	raw := make([]rawItem, 0, len(records))
	for _, r := range records {
		raw = append(raw, rawItem{
			ID:       firstNonEmpty(string(r.ID), string(r.AwemeID)),
			Title:    firstNonEmpty(string(r.Title), string(r.Desc)),
			ImageURL: firstNonEmpty(string(r.ImageURL), string(r.Cover), string(r.Video.Cover)),
		})
	}

	return normalize(raw, TikTok, tiktokPlaceholder, s.limit), nil
}
