// Package weather resolves a location to its current temperature and
// conditions. Every failure is reported as ErrWeatherUnavailable.
package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
)

// ErrWeatherUnavailable is the single failure kind of a lookup.
var ErrWeatherUnavailable = errors.New("weather unavailable")

// ErrInvalidQuery is wrapped into ErrWeatherUnavailable when the caller
// passes an empty location or an unknown unit system.
var ErrInvalidQuery = errors.New("invalid weather query")

type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

func ParseUnits(s string) (Units, error) {
	switch u := Units(strings.ToLower(strings.TrimSpace(s))); u {
	case Metric, Imperial:
		return u, nil
	default:
		return "", fmt.Errorf("%w: unknown units %q", ErrInvalidQuery, s)
	}
}

// Reading is one current-conditions observation.
type Reading struct {
	Temperature float64 `json:"temp"`
	Condition   string  `json:"conditions"`
	Description string  `json:"description"`
}

// UnavailableError carries the cause of a failed lookup.
type UnavailableError struct {
	Provider string
	Location string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s lookup for %q: %v", ErrWeatherUnavailable, e.Provider, e.Location, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrWeatherUnavailable, e.Err}
}

type Provider interface {
	Lookup(ctx context.Context, location string, units Units) (Reading, error)
	Name() string
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// IsPostalCode reports whether location looks like "94103" or "94103,us".
func IsPostalCode(location string) bool {
	code, _, _ := strings.Cut(location, ",")
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
