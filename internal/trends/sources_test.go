package trends

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/outfit-trends/internal/config"
)

func providerServer(t *testing.T, path, body string, status int, check func(r *http.Request)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, path, r.URL.Path)
		if check != nil {
			check(r)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func sourceConfig(typ, baseURL string) config.TrendSourceConfig {
	return config.TrendSourceConfig{
		Type:    typ,
		Enabled: true,
		BaseURL: baseURL,
		Host:    typ + ".example.com",
		APIKey:  "rapid-key",
		Limit:   10,
	}
}

func TestPinterestSource_Fetch(t *testing.T) {
	base := providerServer(t, "/search/pins", `{"pins":[
		{"id":"p1","title":"Wool Sweater","image_url":"https://img/1.jpg"},
		{"pin_id":12345,"grid_title":"Rain Coat","images":{"orig":{"url":"https://img/2.jpg"}}},
		{"title":"","image":"https://img/3.jpg"}
	]}`, http.StatusOK, func(r *http.Request) {
		assert.Equal(t, "fashion trends", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "pinterest.example.com", r.Header.Get("X-RapidAPI-Host"))
		assert.Equal(t, "rapid-key", r.Header.Get("X-RapidAPI-Key"))
	})

	src := NewPinterestSource(sourceConfig("pinterest", base), nil)
	assert.Equal(t, Pinterest, src.Name())

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, Item{ID: "p1", Name: "Wool Sweater", ImageURL: "https://img/1.jpg", Source: Pinterest}, items[0])
	assert.Equal(t, Item{ID: "12345", Name: "Rain Coat", ImageURL: "https://img/2.jpg", Source: Pinterest}, items[1])

	assert.Equal(t, "Pinterest Item", items[2].Name)
	assert.NotEmpty(t, items[2].ID)
	assert.Equal(t, "https://img/3.jpg", items[2].ImageURL)
}

func TestPinterestSource_DataVariantAndLimit(t *testing.T) {
	base := providerServer(t, "/search/pins", `{"data":[
		{"id":"a","title":"A"},{"id":"b","title":"B"},{"id":"c","title":"C"}
	]}`, http.StatusOK, nil)

	cfg := sourceConfig("pinterest", base)
	cfg.Limit = 2
	cfg.Params = map[string]string{"query": "street style"}

	items, err := NewPinterestSource(cfg, nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
}

func TestPinterestSource_Errors(t *testing.T) {
	t.Run("empty payload", func(t *testing.T) {
		base := providerServer(t, "/search/pins", `{"pins":[]}`, http.StatusOK, nil)
		_, err := NewPinterestSource(sourceConfig("pinterest", base), nil).Fetch(context.Background())
		assert.ErrorIs(t, err, ErrEmptyPayload)
	})

	t.Run("bad status", func(t *testing.T) {
		base := providerServer(t, "/search/pins", `{"message":"quota exceeded"}`, http.StatusTooManyRequests, nil)
		_, err := NewPinterestSource(sourceConfig("pinterest", base), nil).Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("malformed payload", func(t *testing.T) {
		base := providerServer(t, "/search/pins", `{"pins":[`, http.StatusOK, nil)
		_, err := NewPinterestSource(sourceConfig("pinterest", base), nil).Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode response")
	})
}

func TestTikTokSource_Fetch(t *testing.T) {
	base := providerServer(t, "/trending", `{"trends":[
		{"id":"t1","title":"Cotton T-Shirt","image_url":"https://img/t1.jpg"},
		{"aweme_id":7301234567890,"desc":"Denim shorts haul","cover":"https://img/t2.jpg"},
		{"video":{"cover":"https://img/t3.jpg"}}
	]}`, http.StatusOK, func(r *http.Request) {
		assert.Equal(t, "US", r.URL.Query().Get("region"))
		assert.Equal(t, "10", r.URL.Query().Get("count"))
		assert.Equal(t, "tiktok.example.com", r.Header.Get("X-RapidAPI-Host"))
		assert.Equal(t, "rapid-key", r.Header.Get("X-RapidAPI-Key"))
	})

	src := NewTikTokSource(sourceConfig("tiktok", base), nil)
	assert.Equal(t, TikTok, src.Name())

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, Item{ID: "t1", Name: "Cotton T-Shirt", ImageURL: "https://img/t1.jpg", Source: TikTok}, items[0])
	assert.Equal(t, Item{ID: "7301234567890", Name: "Denim shorts haul", ImageURL: "https://img/t2.jpg", Source: TikTok}, items[1])
	assert.Equal(t, "TikTok Trend", items[2].Name)
	assert.Equal(t, "https://img/t3.jpg", items[2].ImageURL)
	assert.NotEmpty(t, items[2].ID)
}

func TestTikTokSource_ItemsVariant(t *testing.T) {
	base := providerServer(t, "/trending", `{"items":[{"id":"x","title":"Sundress"}]}`, http.StatusOK, nil)

	items, err := NewTikTokSource(sourceConfig("tiktok", base), nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Sundress", items[0].Name)
}

func TestTikTokSource_EmptyPayload(t *testing.T) {
	base := providerServer(t, "/trending", `{}`, http.StatusOK, nil)

	_, err := NewTikTokSource(sourceConfig("tiktok", base), nil).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(sourceConfig("pinterest", "http://x"), nil)
	require.NoError(t, err)
	assert.IsType(t, &PinterestSource{}, src)

	src, err = NewSource(sourceConfig("tiktok", "http://x"), nil)
	require.NoError(t, err)
	assert.IsType(t, &TikTokSource{}, src)

	_, err = NewSource(sourceConfig("instagram", "http://x"), nil)
	assert.Error(t, err)
}

func TestNormalize_SynthesizedIDsAreLocallyUnique(t *testing.T) {
	items := normalize([]rawItem{{}, {}, {}}, TikTok, tiktokPlaceholder, 0)

	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
		assert.Equal(t, tiktokPlaceholder, it.Name)
	}
}

func TestFlexString(t *testing.T) {
	var v struct {
		A flexString `json:"a"`
		B flexString `json:"b"`
		C flexString `json:"c"`
		D flexString `json:"d"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"a":"text","b":42,"c":null,"d":{"url":"x"}}`), &v))
	assert.Equal(t, flexString("text"), v.A)
	assert.Equal(t, flexString("42"), v.B)
	assert.Equal(t, flexString(""), v.C)
	assert.Equal(t, flexString(""), v.D)
}
