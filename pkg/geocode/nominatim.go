// Package geocode resolves free-text US locations through the Nominatim search API.
package geocode

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

	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "LFSDirectory/1.0 (lfsdirectory.com)"
	cacheKeyPrefix   = "geocode:"
)

var ErrNotFound = errors.New("location not found")

// Location is a resolved point.
type Location struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// Cache stores serialized lookups. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Geocoder is the behavior the search service depends on.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Location, error)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	cache      Cache
	cacheTTL   time.Duration
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithCache enables result caching for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves query as a US location. ErrNotFound is returned when nothing matches.
func (c *Client) Geocode(ctx context.Context, query string) (*Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNotFound
	}

	cacheKey := cacheKeyPrefix + strings.ToLower(query)
	if loc, ok := c.fromCache(ctx, cacheKey); ok {
		return loc, nil
	}

	params := url.Values{}
	params.Set("q", query+", USA")
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", "us")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call geocoder: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read geocode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("parse geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude: %w", err)
	}

	loc := &Location{Lat: lat, Lng: lng, Label: results[0].DisplayName}
	c.toCache(ctx, cacheKey, loc)
	return loc, nil
}

func (c *Client) fromCache(ctx context.Context, key string) (*Location, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Geocode cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var loc Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil, false
	}
	return &loc, true
}

func (c *Client) toCache(ctx context.Context, key string, loc *Location) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, string(raw), c.cacheTTL); err != nil {
		logger.Warn("Geocode cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
