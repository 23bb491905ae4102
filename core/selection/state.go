// Package selection - Selection/visibility state machine.
// Every transition takes a State and an Event and returns a new State; nothing is mutated in place.
package selection

import (
	"github.com/shopspring/decimal"

	"quote-calculator/core/pricing"
	"quote-calculator/core/quote"
)

// CategoryView is the derived visibility of one category
type CategoryView struct {
	// Visible is false when the whole group is hidden
	Visible bool `json:"visible"`

	// Enabled is false when the group is shown but locked
	Enabled bool `json:"enabled"`

	// Tiers are the selectable tier names, in catalog order
	Tiers []string `json:"tiers"`
}

// Allows reports whether a tier name is currently selectable
func (v CategoryView) Allows(tier string) bool {
	if !v.Visible || !v.Enabled {
		return false
	}
	for _, t := range v.Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// Visibility maps every category to its view
type Visibility map[pricing.Category]CategoryView

// State is one immutable snapshot of the calculator
type State struct {
	// Location is the active profile id
	Location string `json:"location"`

	// Hours is the event length
	Hours decimal.Decimal `json:"hours"`

	// Address is the free-text event address, may be empty
	Address string `json:"address,omitempty"`

	// Selection holds the current choice per category
	Selection quote.Selection `json:"selection"`

	// Visibility is derived from Location and Selection
	Visibility Visibility `json:"visibility"`
}

// Event is a user action or system trigger
type Event interface {
	event()
}

// PickTier selects a tier in a category
type PickTier struct {
	Category pricing.Category
	Tier     string
}

// SwitchLocation activates another profile
type SwitchLocation struct {
	Location string
}

// SetHours changes the event length
type SetHours struct {
	Hours decimal.Decimal
}

// SetAddress changes the event address
type SetAddress struct {
	Address string
}

func (PickTier) event()       {}
func (SwitchLocation) event() {}
func (SetHours) event()       {}
func (SetAddress) event()     {}

// Effects tells the caller what a transition requires next
type Effects struct {
	// Recompute is set when the quote must be recomputed
	Recompute bool

	// ResolveAddress is non-empty when a distance lookup must be issued for it
	ResolveAddress string
}
