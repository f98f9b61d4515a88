// Package imagesearch looks up outfit pictures through Google Custom Search.
package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vzahanych/outfit-trends/internal/config"
	"github.com/vzahanych/outfit-trends/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrSearchFailed wraps every failed lookup.
var ErrSearchFailed = errors.New("image search failed")

const (
	maxErrorBody = 512
	// Custom Search returns at most ten results per page.
	maxLimit = 10
)

type Image struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
	Context   string `json:"context"`
	Source    string `json:"source"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type GoogleClient struct {
	baseURL  string
	apiKey   string
	engineID string
	limit    int
	client   HTTPClient
	logger   *zap.Logger
	tele     *telemetry.Telemetry
}

type searchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		DisplayLink string `json:"displayLink"`
		Image       struct {
			ContextLink   string `json:"contextLink"`
			ThumbnailLink string `json:"thumbnailLink"`
		} `json:"image"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewGoogleClient(cfg config.ImageSearchConfig, client HTTPClient, logger *zap.Logger, tele *telemetry.Telemetry) *GoogleClient {
	if client == nil {
		client = &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		}
	}

	limit := cfg.Limit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	return &GoogleClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		engineID: cfg.EngineID,
		limit:    limit,
		client:   client,
		logger:   logger,
		tele:     tele,
	}
}

// Search returns an empty, non-nil slice when nothing matches.
func (g *GoogleClient) Search(ctx context.Context, query string) ([]Image, error) {
	ctx, span := g.tele.GetTracer().Start(ctx, "imagesearch.Search")
	defer span.End()

	query = strings.TrimSpace(query)
	span.SetAttributes(attribute.String("query", query))

	images, err := g.search(ctx, query)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSearchFailed, err)
		g.tele.RecordError(ctx, err)
		g.logger.Warn("Image search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("results", len(images)))
	g.logger.Debug("Image search completed", zap.String("query", query), zap.Int("results", len(images)))

	return images, nil
}

func (g *GoogleClient) search(ctx context.Context, query string) ([]Image, error) {
	if query == "" {
		return nil, errors.New("query is required")
	}

	u, err := url.Parse(fmt.Sprintf("%s/customsearch/v1", g.baseURL))
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("key", g.apiKey)
	q.Set("cx", g.engineID)
	q.Set("q", query)
	q.Set("searchType", "image")
	q.Set("num", strconv.Itoa(g.limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var apiErr searchResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API request failed with status: %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	images := make([]Image, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Link == "" {
			continue
		}
		images = append(images, Image{
			Title:     item.Title,
			Link:      item.Link,
			Thumbnail: item.Image.ThumbnailLink,
			Context:   item.Image.ContextLink,
			Source:    item.DisplayLink,
		})
	}

	return images, nil
}
