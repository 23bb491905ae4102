// Package selection - Presentation model
package selection

import (
	"fmt"

	"github.com/shopspring/decimal"

	"quote-calculator/core/pricing"
	"quote-calculator/core/quote"
)

// Option is one tier card
type Option struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Price    string `json:"price"`
	Selected bool   `json:"selected"`
}

// Group is one category section
type Group struct {
	Category pricing.Category `json:"category"`
	Visible  bool             `json:"visible"`
	Enabled  bool             `json:"enabled"`
	Options  []Option         `json:"options"`
}

// DistanceView describes the travel leg
type DistanceView struct {
	Miles   decimal.Decimal `json:"miles"`
	Cost    decimal.Decimal `json:"cost"`
	Message string          `json:"message,omitempty"`
}

// Text renders the distance line, e.g. "23.4 miles ($15.21)"
func (d DistanceView) Text() string {
	if d.Message != "" {
		return d.Message
	}
	return fmt.Sprintf("%s miles ($%s)", d.Miles.StringFixed(1), d.Cost.StringFixed(2))
}

// View is everything a presentation layer needs; it holds no references into State
type View struct {
	Location      string           `json:"location"`
	LocationLabel string           `json:"location_label"`
	Hours         decimal.Decimal  `json:"hours"`
	HoursLabel    string           `json:"hours_label"`
	Address       string           `json:"address,omitempty"`
	Groups        []Group          `json:"groups"`
	Distance      DistanceView     `json:"distance"`
	Quote         *quote.Breakdown `json:"quote,omitempty"`
	Error         string           `json:"error,omitempty"`

	// Revision orders views published by one session; Render leaves it zero
	Revision uint64 `json:"revision,omitempty"`
}

// Render builds the view for a state. It is a pure function of its arguments.
func Render(profile *pricing.Profile, s State, b *quote.Breakdown, miles decimal.Decimal, distanceMsg string) View {
	v := View{
		Location:      profile.ID,
		LocationLabel: profile.Label,
		Hours:         s.Hours,
		HoursLabel:    HoursLabel(s.Hours),
		Address:       s.Address,
		Quote:         b,
		Distance: DistanceView{
			Miles:   miles,
			Cost:    miles.Mul(profile.RatePerMile).Round(2),
			Message: distanceMsg,
		},
	}

	for _, c := range pricing.Categories {
		cv := s.Visibility[c]
		g := Group{Category: c, Visible: cv.Visible, Enabled: cv.Enabled, Options: []Option{}}
		if cv.Visible {
			chosen := s.Selection.Get(c).Tier
			for _, name := range cv.Tiers {
				t, ok := profile.Tier(c, name)
				if !ok {
					continue
				}
				g.Options = append(g.Options, Option{
					Name:     t.Name,
					Label:    t.Label,
					Price:    t.Rate.Describe(),
					Selected: cv.Enabled && t.Name == chosen,
				})
			}
		}
		v.Groups = append(v.Groups, g)
	}
	return v
}

// HoursLabel renders "1 hour" or "N hours"
func HoursLabel(h decimal.Decimal) string {
	if h.Equal(decimal.NewFromInt(1)) {
		return "1 hour"
	}
	return h.String() + " hours"
}
