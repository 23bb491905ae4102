package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quote-calculator/core/pricing"
	"quote-calculator/core/selection"
	qerrors "quote-calculator/internal/errors"
)

type fixedResolver struct {
	miles map[string]decimal.Decimal
	err   error
}

func (f fixedResolver) Resolve(_ context.Context, address string, _ pricing.Coordinate) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	if m, ok := f.miles[address]; ok {
		return m, nil
	}
	return decimal.Zero, qerrors.AddressNotFound(nil)
}

type fixedKey struct {
	key string
}

func (k fixedKey) Key() (string, error) {
	if k.key == "" {
		return "", qerrors.NotConfigured("nothing")
	}
	return k.key, nil
}

func (k fixedKey) Name() string { return "fixed" }

func newTestServer(t *testing.T, key string, publicDir string) *httptest.Server {
	t.Helper()
	s := NewServer(Options{
		Version:    "test",
		Controller: selection.NewController(pricing.Builtin()),
		Resolver: fixedResolver{miles: map[string]decimal.Decimal{
			"Alamo": decimal.RequireFromString("23.4"),
		}},
		Secrets:   fixedKey{key: key},
		PublicDir: publicDir,
	})
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func postQuote(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/quote", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestConfigReturnsKey(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	resp, err := http.Get(srv.URL + "/api/config")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body ConfigResponse
	decode(t, resp, &body)
	assert.Equal(t, "abc", body.APIKey)
	assert.Equal(t, "Configuration loaded successfully", body.Message)
}

func TestConfigWithoutKey(t *testing.T) {
	srv := newTestServer(t, "", "")

	resp, err := http.Get(srv.URL + "/api/config")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "Failed to load API configuration", body.Error)
	assert.Equal(t, "API not configured", body.Message)
}

func TestOptionsAlwaysOK(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	for _, path := range []string{"/api/config", "/api/quote", "/anything"} {
		req, err := http.NewRequest(http.MethodOptions, srv.URL+path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/quote", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORSOnSimpleRequest(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/config", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))

	var health HealthResponse
	decode(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "2024.2", health.CatalogVersion)
}

func TestCatalog(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	resp, err := http.Get(srv.URL + "/api/catalog")
	require.NoError(t, err)

	var body CatalogResponse
	decode(t, resp, &body)
	require.Len(t, body.Locations, 2)
	assert.Equal(t, "sa-atx", body.Locations[0].ID)
	sound := body.Locations[1].Categories[pricing.CategorySound]
	require.NotEmpty(t, sound)
	assert.Equal(t, "300-4-45", sound[0].Code)
}

func TestQuoteDefaults(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	resp := postQuote(t, srv, `{"location":"sa-atx","hours":6}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var view selection.View
	decode(t, resp, &view)
	require.NotNil(t, view.Quote)
	assert.Equal(t, "330", view.Quote.Total.String())
	assert.Equal(t, "55", view.Quote.PerHour.String())
	assert.Equal(t, "6 hours", view.HoursLabel)
}

func TestQuoteWithSelectionsAndAddress(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	resp := postQuote(t, srv, `{
		"location": "sa-atx",
		"hours": "4",
		"selections": {"sound": "fullStack", "addon": "cooling", "water": "tank"},
		"address": "Alamo"
	}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var view selection.View
	decode(t, resp, &view)
	// 350 + 250 + 60 + 15.21
	assert.Equal(t, "675.21", view.Quote.Total.String())
	assert.Equal(t, "23.4", view.Distance.Miles.String())
}

func TestQuoteAddressNotFoundStillQuotes(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	resp := postQuote(t, srv, `{"location":"sa-atx","address":"Atlantis"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var view selection.View
	decode(t, resp, &view)
	assert.Equal(t, "Address not found", view.Distance.Message)
	assert.Equal(t, "250", view.Quote.Total.String())
}

func TestQuoteRejectsLockedVisual(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	resp := postQuote(t, srv, `{"location":"sa-atx","selections":{"sound":"fullStack","visual":"basic"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "Invalid input", body.Error)
	assert.Contains(t, body.Message, "included with the selected sound package")
}

func TestQuoteBadRequests(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"unknown field", `{"colour":"red"}`, http.StatusBadRequest},
		{"zero hours", `{"hours":0}`, http.StatusBadRequest},
		{"unknown category", `{"selections":{"lasers":"x"}}`, http.StatusBadRequest},
		{"unknown location", `{"location":"denver"}`, http.StatusNotFound},
		{"negative miles", `{"miles":-3}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postQuote(t, srv, tt.body)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestDistanceEndpoint(t *testing.T) {
	srv := newTestServer(t, "abc", "")

	resp, err := http.Get(srv.URL + "/api/distance?location=sa-atx&address=Alamo")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body DistanceResponse
	decode(t, resp, &body)
	assert.Equal(t, "15.21", body.Cost.String())
	assert.Equal(t, "23.4 miles ($15.21)", body.Text)

	resp, err = http.Get(srv.URL + "/api/distance?address=Atlantis")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>calc</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	srv := newTestServer(t, "abc", dir)

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(b)
	}

	status, body := get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "calc")

	status, body = get("/app.js")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "console.log")

	status, body = get("/quote/chicago")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "calc")

	status, _ = get("/api/missing")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(qerrors.Input("x")))
	assert.Equal(t, http.StatusNotFound, statusFor(qerrors.NotFound("location", "x")))
	assert.Equal(t, http.StatusBadGateway, statusFor(qerrors.DistanceUnavailable(nil)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(qerrors.NotConfigured("x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.EOF))
}

func TestRecovererAnswers500(t *testing.T) {
	h := recoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quote", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Something went wrong", body.Error)
}
