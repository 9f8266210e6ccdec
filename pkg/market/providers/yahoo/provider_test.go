package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsnap/pkg/market"
)

func TestProviderHistory(t *testing.T) {
	server := newMockChartServer(t, nil)
	defer server.Close()

	provider := NewProvider(WithClientOptions(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	))

	got, err := provider.History(context.Background(), []string{"^GSPC", "GC=F"}, market.WindowMonth)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got["^GSPC"].ValidCount())
	assert.Equal(t, 3, got["GC=F"].ValidCount())
}

func TestProviderHistorySkipsFailedSymbols(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := path.Base(r.URL.Path)
		if symbol == "BAD" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"chart": map[string]any{
				"result": []any{map[string]any{
					"timestamp": []int64{1748822400},
					"indicators": map[string]any{
						"quote": []any{map[string]any{"close": []any{42.0}}},
					},
				}},
				"error": nil,
			},
		})
	}))
	defer server.Close()

	provider := NewProvider(WithClientOptions(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	))

	got, err := provider.History(context.Background(), []string{"GOOD", "BAD"}, market.WindowQuarter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got, "GOOD")
	assert.NotContains(t, got, "BAD")
}

func TestProviderHistoryAllFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewProvider(WithClientOptions(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	))

	got, err := provider.History(context.Background(), []string{"AAA", "BBB"}, market.WindowMonth)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "http status 502")
}

func TestProviderHistoryCancelled(t *testing.T) {
	server := newMockChartServer(t, nil)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := NewProvider(WithClientOptions(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	))

	_, err := provider.History(ctx, []string{"^GSPC"}, market.WindowMonth)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProviderBuiltFromConfig(t *testing.T) {
	cfg := &market.Config{
		Default: "yahoo",
		Providers: map[string]*market.ProviderConfig{
			"yahoo": {Type: "yahoo", BaseURL: "https://chart.example.test"},
		},
	}
	require.NoError(t, cfg.Validate())

	providers, err := cfg.BuildProviders()
	require.NoError(t, err)

	provider, ok := providers["yahoo"].(*Provider)
	require.True(t, ok)
	assert.Equal(t, "https://chart.example.test", provider.client.baseURL)
	assert.Equal(t, defaultProviderTimeout, provider.timeout)
}

func TestNewProviderDefaults(t *testing.T) {
	provider := NewProvider()
	require.NotNil(t, provider.client)
	assert.Equal(t, defaultProviderTimeout, provider.timeout)
	assert.Equal(t, defaultBaseURL, provider.client.baseURL)
	assert.True(t, strings.HasPrefix(provider.client.userAgent, "Mozilla/5.0"))
}
