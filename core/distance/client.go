// Package distance resolves driving distance between a location origin and an event address
// through the openrouteservice geocode and matrix APIs.
package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"quote-calculator/core/pricing"
	qerrors "quote-calculator/internal/errors"
)

const (
	// DefaultBaseURL is the public openrouteservice endpoint
	DefaultBaseURL = "https://api.openrouteservice.org"

	// DefaultTimeout bounds a full resolution (geocode + matrix)
	DefaultTimeout = 10 * time.Second

	geocodePath = "/geocode/search"
	matrixPath  = "/v2/matrix/driving-car"
)

// Resolver turns an address into driving miles from an origin
type Resolver interface {
	Resolve(ctx context.Context, address string, origin pricing.Coordinate) (decimal.Decimal, error)
}

// Option configures the client
type Option func(*Client)

// WithBaseURL points the client at another openrouteservice deployment
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for both calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-resolution deadline
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit limits outbound requests per second; zero disables limiting
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client is the openrouteservice-backed Resolver
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a client; an empty key yields a client that always fails with NotConfigured
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(5, 5),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

type matrixRequest struct {
	Locations [][2]float64 `json:"locations"`
	Metrics   []string     `json:"metrics"`
	Units     string       `json:"units"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
}

// Resolve geocodes the address and returns the driving distance from origin in miles
func (c *Client) Resolve(ctx context.Context, address string, origin pricing.Coordinate) (decimal.Decimal, error) {
	if !c.Configured() {
		return decimal.Zero, qerrors.NotConfigured("routing API key is not configured")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return decimal.Zero, qerrors.Input("address is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	dest, err := c.geocode(ctx, address)
	if err != nil {
		c.logger.Warn("geocode failed", zap.String("address", address), zap.Error(err))
		return decimal.Zero, err
	}

	miles, err := c.matrix(ctx, origin, dest)
	if err != nil {
		c.logger.Warn("distance matrix failed", zap.String("address", address), zap.Error(err))
		return decimal.Zero, err
	}

	c.logger.Debug("distance resolved",
		zap.String("address", address),
		zap.String("miles", miles.String()),
	)
	return miles, nil
}

func (c *Client) geocode(ctx context.Context, address string) (pricing.Coordinate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return pricing.Coordinate{}, qerrors.DistanceUnavailable(fmt.Errorf("rate limit: %w", err))
	}

	params := url.Values{
		"api_key": {c.apiKey},
		"text":    {address},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+geocodePath+"?"+params.Encode(), nil)
	if err != nil {
		return pricing.Coordinate{}, qerrors.DistanceUnavailable(fmt.Errorf("build request: %w", err))
	}

	body, err := c.do(req)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return pricing.Coordinate{}, qerrors.AddressNotFound(err)
		}
		return pricing.Coordinate{}, qerrors.DistanceUnavailable(err)
	}

	var resp geocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return pricing.Coordinate{}, qerrors.DistanceUnavailable(fmt.Errorf("parse geocode response: %w", err))
	}
	if len(resp.Features) == 0 || len(resp.Features[0].Geometry.Coordinates) < 2 {
		return pricing.Coordinate{}, qerrors.AddressNotFound(nil).WithContext("address", address)
	}

	coords := resp.Features[0].Geometry.Coordinates
	return pricing.Coordinate{Lng: coords[0], Lat: coords[1]}, nil
}

func (c *Client) matrix(ctx context.Context, origin, dest pricing.Coordinate) (decimal.Decimal, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return decimal.Zero, qerrors.DistanceUnavailable(fmt.Errorf("rate limit: %w", err))
	}

	payload, err := json.Marshal(matrixRequest{
		Locations: [][2]float64{origin.Pair(), dest.Pair()},
		Metrics:   []string{"distance"},
		Units:     "mi",
	})
	if err != nil {
		return decimal.Zero, qerrors.DistanceUnavailable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+matrixPath, bytes.NewReader(payload))
	if err != nil {
		return decimal.Zero, qerrors.DistanceUnavailable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return decimal.Zero, qerrors.DistanceUnavailable(err)
	}

	var resp matrixResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Zero, qerrors.DistanceUnavailable(fmt.Errorf("parse matrix response: %w", err))
	}
	if len(resp.Distances) == 0 || len(resp.Distances[0]) < 2 || resp.Distances[0][1] == nil {
		return decimal.Zero, qerrors.DistanceUnavailable(fmt.Errorf("matrix response has no distance"))
	}

	miles := decimal.NewFromFloat(*resp.Distances[0][1])
	if miles.IsNegative() {
		return decimal.Zero, qerrors.DistanceUnavailable(fmt.Errorf("negative distance %s", miles))
	}
	return miles, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{Path: req.URL.Path, Code: resp.StatusCode}
	}
	return body, nil
}

// statusError is a non-2xx reply from the routing service
type statusError struct {
	Path string
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Path, e.Code)
}
