// Package pricing - Location profiles and the catalog that holds them
package pricing

import (
	"github.com/shopspring/decimal"

	qerrors "quote-calculator/internal/errors"
)

// Coordinate is a geographic point in routing-API order
type Coordinate struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Pair returns the coordinate as [lng, lat]
func (c Coordinate) Pair() [2]float64 {
	return [2]float64{c.Lng, c.Lat}
}

// Tier is one selectable option within a category
type Tier struct {
	// Category the tier belongs to
	Category Category `json:"category"`

	// Name is the stable identifier, e.g. "fullStack"
	Name string `json:"name"`

	// Label is the display name
	Label string `json:"label"`

	// Code is the original rate code string
	Code string `json:"code"`

	// Rate is the decoded code
	Rate Rate `json:"rate"`

	// IncludesVisuals marks a bundle sound tier
	IncludesVisuals bool `json:"includes_visuals,omitempty"`
}

// Profile holds pricing, geography and visibility rules for one service region
type Profile struct {
	// ID is the location key, e.g. "sa-atx"
	ID string `json:"id"`

	// Label is the display name
	Label string `json:"label"`

	// Origin is where travel is measured from
	Origin Coordinate `json:"origin"`

	// RatePerMile is the travel rate
	RatePerMile decimal.Decimal `json:"rate_per_mile"`

	// Tiers maps category to its ordered tiers
	Tiers map[Category][]Tier `json:"tiers"`

	// Bundles are sound tiers that include visuals
	Bundles []string `json:"bundles,omitempty"`

	// Cooling are addon tiers that reveal the water category
	Cooling []string `json:"cooling,omitempty"`

	// FuelFilters maps an addon tier to the fuel tiers it makes selectable
	FuelFilters map[string][]string `json:"fuel_filters,omitempty"`
}

// TiersFor returns the ordered tiers of a category
func (p *Profile) TiersFor(c Category) []Tier {
	tiers := p.Tiers[c]
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// Tier looks up a tier by name
func (p *Profile) Tier(c Category, name string) (Tier, bool) {
	for _, t := range p.Tiers[c] {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

// TierAt looks up a tier by position
func (p *Profile) TierAt(c Category, index int) (Tier, bool) {
	tiers := p.Tiers[c]
	if index < 0 || index >= len(tiers) {
		return Tier{}, false
	}
	return tiers[index], true
}

// IsBundle reports whether a sound tier includes visuals
func (p *Profile) IsBundle(soundTier string) bool {
	return contains(p.Bundles, soundTier)
}

// IsCooling reports whether an addon tier reveals water
func (p *Profile) IsCooling(addonTier string) bool {
	return contains(p.Cooling, addonTier)
}

// FuelTiersFor returns the fuel tiers an addon tier allows, and whether it reveals fuel at all
func (p *Profile) FuelTiersFor(addonTier string) ([]string, bool) {
	tiers, ok := p.FuelFilters[addonTier]
	if !ok {
		return nil, false
	}
	out := make([]string, len(tiers))
	copy(out, tiers)
	return out, true
}

// Catalog is the versioned set of location profiles
type Catalog struct {
	// Version identifies the pricing revision
	Version string `json:"version"`

	profiles []*Profile
	byID     map[string]*Profile
}

// NewCatalog creates a catalog from already validated profiles
func NewCatalog(version string, profiles []*Profile) *Catalog {
	c := &Catalog{
		Version: version,
		byID:    make(map[string]*Profile, len(profiles)),
	}
	for _, p := range profiles {
		c.profiles = append(c.profiles, p)
		c.byID[p.ID] = p
	}
	return c
}

// Profile returns the profile with the given id
func (c *Catalog) Profile(id string) (*Profile, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, qerrors.NotFound("location", id)
	}
	return p, nil
}

// Profiles returns all profiles in declaration order
func (c *Catalog) Profiles() []*Profile {
	out := make([]*Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// DefaultProfile returns the first declared profile
func (c *Catalog) DefaultProfile() *Profile {
	if len(c.profiles) == 0 {
		return nil
	}
	return c.profiles[0]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
