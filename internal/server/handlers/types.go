package handlers

import (
	"strings"

	"github.com/vzahanych/outfit-trends/internal/server/utils"
)

// TrendsRequest accepts the location under any of the names used by the
// web and mobile clients. The first non-empty one wins.
type TrendsRequest struct {
	Zip      string `form:"zip" json:"zip" validate:"omitempty,max=64,location"`
	Location string `form:"location" json:"location" validate:"omitempty,max=64,location"`
	City     string `form:"city" json:"city" validate:"omitempty,max=64,location"`
}

// trim drops surrounding whitespace so a blank parameter counts as absent and
// the configured default location applies.
func (r *TrendsRequest) trim() {
	r.Zip = strings.TrimSpace(r.Zip)
	r.Location = strings.TrimSpace(r.Location)
	r.City = strings.TrimSpace(r.City)
}

func (r TrendsRequest) ResolvedLocation() string {
	for _, v := range []string{r.Zip, r.Location, r.City} {
		if v != "" {
			return v
		}
	}
	return ""
}

type WeatherRequest struct {
	TrendsRequest
	Units string `form:"units" json:"units" validate:"omitempty,oneof=metric imperial"`
}

// TrendsResponse is the aggregated payload returned by /api/fetchTrends.
type TrendsResponse struct {
	Weather WeatherPayload `json:"weather"`
	Trends  []TrendPayload `json:"trends"`
}

type WeatherPayload struct {
	Temp        float64 `json:"temp"`
	Conditions  string  `json:"conditions"`
	Description string  `json:"description"`
}

type TrendPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Source string `json:"source"`
}

// WeatherResponse is returned by /weather.
type WeatherResponse struct {
	Location string `json:"location"`
	Units    string `json:"units"`
	WeatherPayload
}

// RecommendResponse is returned by /recommend.
type RecommendResponse struct {
	Location string          `json:"location"`
	Weather  WeatherPayload  `json:"weather"`
	Outfits  []OutfitPayload `json:"outfits"`
}

type OutfitPayload struct {
	Name          string   `json:"outfit_name"`
	Description   string   `json:"description"`
	StyleKeywords []string `json:"style_keywords"`
}

type ImageSearchRequest struct {
	Query string `form:"query" json:"query" validate:"required,max=128"`
}

func (r *ImageSearchRequest) trim() {
	r.Query = strings.TrimSpace(r.Query)
}

// ImageSearchResponse is returned by /images.
type ImageSearchResponse struct {
	Query  string         `json:"query"`
	Images []ImagePayload `json:"images"`
}

type ImagePayload struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
	Context   string `json:"context"`
	Source    string `json:"source"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string                  `json:"message"`
	Error   string                  `json:"error"`
	Code    string                  `json:"code,omitempty"`
	Details []utils.ValidationError `json:"details,omitempty"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string   `json:"status"`
	Uptime    string   `json:"uptime"`
	Timestamp string   `json:"timestamp,omitempty"`
	Sources   []string `json:"sources,omitempty"`
}
