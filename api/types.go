// Package api - Request and response types
package api

import (
	"github.com/shopspring/decimal"

	"quote-calculator/core/pricing"
)

// ConfigResponse is returned by GET /api/config
type ConfigResponse struct {
	APIKey  string `json:"apiKey"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// QuoteRequest is the input to POST /api/quote.
// Selections maps category to tier name; omitted categories keep their defaults.
type QuoteRequest struct {
	Location   string                      `json:"location"`
	Hours      *decimal.Decimal            `json:"hours,omitempty"`
	Selections map[pricing.Category]string `json:"selections,omitempty"`
	Address    string                      `json:"address,omitempty"`

	// Miles skips the distance lookup when set
	Miles *decimal.Decimal `json:"miles,omitempty"`
}

// DistanceResponse is returned by GET /api/distance
type DistanceResponse struct {
	Location string          `json:"location"`
	Address  string          `json:"address"`
	Miles    decimal.Decimal `json:"miles"`
	Cost     decimal.Decimal `json:"cost"`
	Text     string          `json:"text"`
}

// CatalogResponse is returned by GET /api/catalog
type CatalogResponse struct {
	Version   string         `json:"version"`
	Locations []LocationInfo `json:"locations"`
}

// LocationInfo describes one profile
type LocationInfo struct {
	ID          string                          `json:"id"`
	Label       string                          `json:"label"`
	Origin      [2]float64                      `json:"origin"`
	RatePerMile decimal.Decimal                 `json:"rate_per_mile"`
	Bundles     []string                        `json:"bundles,omitempty"`
	Cooling     []string                        `json:"cooling,omitempty"`
	FuelFilters map[string][]string             `json:"fuel_filters,omitempty"`
	Categories  map[pricing.Category][]TierInfo `json:"categories"`
}

// TierInfo describes one tier
type TierInfo struct {
	Name            string `json:"name"`
	Label           string `json:"label"`
	Code            string `json:"code"`
	Price           string `json:"price"`
	IncludesVisuals bool   `json:"includes_visuals,omitempty"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	CatalogVersion string `json:"catalog_version"`
	Time           string `json:"time"`
}

func catalogResponse(c *pricing.Catalog) CatalogResponse {
	resp := CatalogResponse{Version: c.Version}
	for _, p := range c.Profiles() {
		info := LocationInfo{
			ID:          p.ID,
			Label:       p.Label,
			Origin:      p.Origin.Pair(),
			RatePerMile: p.RatePerMile,
			Bundles:     p.Bundles,
			Cooling:     p.Cooling,
			FuelFilters: p.FuelFilters,
			Categories:  make(map[pricing.Category][]TierInfo),
		}
		for _, cat := range pricing.Categories {
			tiers := p.TiersFor(cat)
			if len(tiers) == 0 {
				continue
			}
			out := make([]TierInfo, 0, len(tiers))
			for _, t := range tiers {
				out = append(out, TierInfo{
					Name:            t.Name,
					Label:           t.Label,
					Code:            t.Code,
					Price:           t.Rate.Describe(),
					IncludesVisuals: t.IncludesVisuals,
				})
			}
			info.Categories[cat] = out
		}
		resp.Locations = append(resp.Locations, info)
	}
	return resp
}
