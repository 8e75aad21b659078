package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sakescan/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com")

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestScrape_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var req scrapeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://export.sakurasaketen.com/sake", req.URL)
		assert.Equal(t, []string{"markdown", "html"}, req.Formats)
		assert.True(t, req.OnlyMainContent)
		assert.Equal(t, int64(3000), req.WaitFor)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]string{
				"html":     "<div>page</div>",
				"markdown": "Modern-Light\nDASSAI 23",
			},
		})
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)
	snapshot, err := client.Scrape(context.Background(), "https://export.sakurasaketen.com/sake", domain.ScrapeOptions{
		OnlyMainContent: true,
		WaitFor:         3 * time.Second,
	})

	require.NoError(t, err)
	assert.Equal(t, "<div>page</div>", snapshot.HTML)
	assert.Equal(t, "Modern-Light\nDASSAI 23", snapshot.Markdown)
}

func TestScrape_MissingCredential(t *testing.T) {
	client := NewClient("", "https://api.example.com")

	snapshot, err := client.Scrape(context.Background(), "https://example.com", domain.ScrapeOptions{})

	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestScrape_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"insufficient credits"}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)
	snapshot, err := client.Scrape(context.Background(), "https://example.com", domain.ScrapeOptions{})

	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, domain.ErrScrapeFailed)
	// Upstream status and body must be carried for diagnosis
	assert.Contains(t, err.Error(), "402")
	assert.Contains(t, err.Error(), "insufficient credits")
}

func TestScrape_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL)
	snapshot, err := client.Scrape(context.Background(), "https://example.com", domain.ScrapeOptions{})

	require.NoError(t, err)
	assert.Empty(t, snapshot.HTML)
	assert.Empty(t, snapshot.Markdown)
}

func TestScrape_ContextCancelled(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Scrape(ctx, "https://example.com", domain.ScrapeOptions{})
	assert.Error(t, err)
}
