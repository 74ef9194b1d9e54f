package geo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *NominatimClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNominatimClientWithBaseURL(server.URL, logger)
}

func TestResolvePlaceName_UsesAddressComponents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"name": "",
			"display_name": "Koramangala, Bengaluru, Karnataka, India",
			"address": {
				"suburb": "Koramangala",
				"city": "Bengaluru",
				"state": "Karnataka",
				"country": "India"
			}
		}`)
	})

	place, ok := client.ResolvePlaceName(context.Background(), 12.9352, 77.6245)
	require.True(t, ok)
	assert.Equal(t, "Koramangala, Karnataka", place)
}

func TestResolvePlaceName_TopLevelNameWins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"name": "Lalbagh Botanical Garden",
			"display_name": "Lalbagh Botanical Garden, Bengaluru, Karnataka, India",
			"address": {
				"city": "Bengaluru",
				"state": "Karnataka"
			}
		}`)
	})

	place, ok := client.ResolvePlaceName(context.Background(), 12.9507, 77.5848)
	require.True(t, ok)
	assert.Equal(t, "Lalbagh Botanical Garden, Karnataka", place)
}

func TestResolvePlaceName_DisplayNameFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"name": "",
			"display_name": "Somewhere Remote, Nowhere",
			"address": {}
		}`)
	})

	place, ok := client.ResolvePlaceName(context.Background(), 0, 0)
	require.True(t, ok)
	assert.Equal(t, "Somewhere Remote", place)
}

func TestResolvePlaceName_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, ok := client.ResolvePlaceName(context.Background(), 1, 1)
		assert.False(t, ok)
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "not json")
		})
		_, ok := client.ResolvePlaceName(context.Background(), 1, 1)
		assert.False(t, ok)
	})

	t.Run("empty response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"name": "", "display_name": "", "address": {}}`)
		})
		_, ok := client.ResolvePlaceName(context.Background(), 1, 1)
		assert.False(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, ok := client.ResolvePlaceName(ctx, 1, 1)
		assert.False(t, ok)
	})
}

func TestPickPlaceName_NumericNamesRejected(t *testing.T) {
	_, ok := pickPlaceName(reverseResponse{
		Name:    "221",
		Address: map[string]string{"suburb": "521"},
	})
	assert.False(t, ok)
}
