package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	rapidAPIHostHeader = "X-RapidAPI-Host"
	rapidAPIKeyHeader  = "X-RapidAPI-Key"
	maxErrorBody       = 512
)

// rapidAPIClient issues authenticated GETs against a RapidAPI-hosted provider.
type rapidAPIClient struct {
	baseURL string
	host    string
	apiKey  string
	client  HTTPClient
}

func (c *rapidAPIClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set(rapidAPIHostHeader, c.host)
	req.Header.Set(rapidAPIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// flexString accepts a JSON string, number or bool. Objects, arrays and null
// decode to the empty string so one odd field cannot sink the whole payload.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case '{', '[', 'n':
		*f = ""
	default:
		// numbers and booleans keep their literal text, e.g. 7301234567890
		*f = flexString(data)
	}

	return nil
}
