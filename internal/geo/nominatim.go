package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"

	// Nominatim's usage policy allows at most 1 request per second
	rateLimit = 1
	rateBurst = 1
)

// Geocoder resolves coordinates to an optional human-readable place name.
// Implementations are best-effort: a failed lookup returns ("", false), never
// an error the caller has to handle.
type Geocoder interface {
	ResolvePlaceName(ctx context.Context, lat, lon float64) (string, bool)
}

// NominatimClient reverse-geocodes through the public Nominatim API with
// client-side rate limiting.
type NominatimClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

func NewNominatimClient(logger *slog.Logger) *NominatimClient {
	return &NominatimClient{
		baseURL:     defaultBaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		logger:      logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewNominatimClientWithBaseURL is used by tests to point at a fake server.
func NewNominatimClientWithBaseURL(baseURL string, logger *slog.Logger) *NominatimClient {
	c := NewNominatimClient(logger)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type reverseResponse struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// ResolvePlaceName returns the most specific named locality around the
// coordinates, suffixed with the state when it adds information.
func (c *NominatimClient) ResolvePlaceName(ctx context.Context, lat, lon float64) (string, bool) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", false
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("zoom", "16")
	q.Set("addressdetails", "1")

	reqURL := c.baseURL + "/reverse?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("reverse geocode request failed", "lat", lat, "lon", lon, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("reverse geocode bad status", "status", resp.StatusCode)
		return "", false
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("reverse geocode decode failed", "error", err)
		return "", false
	}

	if name, ok := pickPlaceName(body); ok {
		return name, true
	}

	// Last resort: first component of the display name
	if body.DisplayName != "" {
		first := strings.TrimSpace(strings.SplitN(body.DisplayName, ",", 2)[0])
		if first != "" {
			return first, true
		}
	}

	c.logger.Warn("reverse geocode produced no place name", "lat", lat, "lon", lon)
	return "", false
}

// specificity order for address components, most specific first
var componentOrder = []string{
	"neighbourhood", "quarter", "suburb", "village",
	"town", "city_district", "city", "county",
}

var allDigits = regexp.MustCompile(`^\d+$`)

func pickPlaceName(body reverseResponse) (string, bool) {
	primary := ""

	// The top-level name wins unless it just repeats a broader component.
	if validPlaceName(body.Name) && !repeatsComponent(body.Name, body.Address) {
		primary = body.Name
	} else {
		for _, key := range componentOrder {
			if v := body.Address[key]; validPlaceName(v) {
				primary = v
				break
			}
		}
	}

	if primary == "" {
		return "", false
	}

	state := body.Address["state"]
	if validPlaceName(state) && !strings.EqualFold(state, primary) && !repeatsComponent(state, body.Address) {
		return primary + ", " + state, true
	}
	return primary, true
}

func validPlaceName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && !allDigits.MatchString(name)
}

func repeatsComponent(name string, address map[string]string) bool {
	for _, key := range componentOrder {
		if v := address[key]; v != "" && strings.EqualFold(name, v) {
			return true
		}
	}
	return false
}
