// Package quote computes itemized event quotes.
// Compute is a pure function: it reads a Selection and returns a new Breakdown.
package quote

import (
	"github.com/shopspring/decimal"

	"quote-calculator/core/pricing"
	qerrors "quote-calculator/internal/errors"
)

// Choice is the tier currently selected in one category
type Choice struct {
	// Tier is the tier name; empty when the category is forced off
	Tier string `json:"tier"`

	// Code is the rate code string
	Code string `json:"code"`

	// Rate is the decoded code
	Rate pricing.Rate `json:"rate"`

	// IncludesVisuals marks a bundle sound tier
	IncludesVisuals bool `json:"includes_visuals,omitempty"`
}

// Off is the choice for a disabled or hidden category
func Off() Choice {
	return Choice{Code: pricing.NoCharge, Rate: pricing.Disabled()}
}

// ChoiceOf converts a catalog tier into a choice
func ChoiceOf(t pricing.Tier) Choice {
	return Choice{
		Tier:            t.Name,
		Code:            t.Code,
		Rate:            t.Rate,
		IncludesVisuals: t.IncludesVisuals,
	}
}

// Selection maps each category to its current choice.
// Treat it as immutable: With returns an updated copy.
type Selection map[pricing.Category]Choice

// NewSelection returns a selection with every category off
func NewSelection() Selection {
	s := make(Selection, len(pricing.Categories))
	for _, c := range pricing.Categories {
		s[c] = Off()
	}
	return s
}

// Get returns the choice for a category, Off when unset
func (s Selection) Get(c pricing.Category) Choice {
	if ch, ok := s[c]; ok {
		return ch
	}
	return Off()
}

// With returns a copy of s with one category replaced
func (s Selection) With(c pricing.Category, ch Choice) Selection {
	out := make(Selection, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[c] = ch
	return out
}

// Codes returns the category to rate code mapping
func (s Selection) Codes() map[pricing.Category]string {
	out := make(map[pricing.Category]string, len(pricing.Categories))
	for _, c := range pricing.Categories {
		out[c] = s.Get(c).Code
	}
	return out
}

// Line labels, in breakdown order.
const (
	LabelBase   = "Base Package"
	LabelExtra  = "Extra Hours"
	LabelVisual = "Visuals"
	LabelDJ     = "DJ Services"
	LabelAddon  = "Add-ons"
	LabelWater  = "Water Service"
	LabelFuel   = "Fuel Service"
	LabelTravel = "Travel Cost"
)

// LineItem is one non-zero cost component
type LineItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown is the derived quote; it is never persisted
type Breakdown struct {
	// Total is the sum of every category
	Total decimal.Decimal `json:"total"`

	// PerHour is Total / hours, rounded to cents
	PerHour decimal.Decimal `json:"per_hour"`

	// Hours the quote was computed for
	Hours decimal.Decimal `json:"hours"`

	// TravelMiles used for the travel line
	TravelMiles decimal.Decimal `json:"travel_miles"`

	// Lines lists every non-zero component
	Lines []LineItem `json:"lines"`
}

// Line returns the amount for a label, zero if the line was omitted
func (b *Breakdown) Line(label string) decimal.Decimal {
	for _, l := range b.Lines {
		if l.Label == label {
			return l.Amount
		}
	}
	return decimal.Zero
}

// Compute produces the itemized quote for a selection.
// hours must be positive; travelMiles and ratePerMile must not be negative.
func Compute(sel Selection, hours, travelMiles, ratePerMile decimal.Decimal) (*Breakdown, error) {
	if !hours.IsPositive() {
		return nil, qerrors.Inputf("hours must be positive, got %s", hours.String())
	}
	if travelMiles.IsNegative() {
		return nil, qerrors.Inputf("travel distance must not be negative, got %s", travelMiles.String())
	}
	if ratePerMile.IsNegative() {
		return nil, qerrors.Inputf("rate per mile must not be negative, got %s", ratePerMile.String())
	}

	sound := sel.Get(pricing.CategorySound)
	visual := sel.Get(pricing.CategoryVisual)
	dj := sel.Get(pricing.CategoryDJ)
	addon := sel.Get(pricing.CategoryAddon)
	water := sel.Get(pricing.CategoryWater)
	fuel := sel.Get(pricing.CategoryFuel)

	visualCost := visual.Rate.Cost(hours)
	if sound.IncludesVisuals {
		visualCost = decimal.Zero
	}

	amounts := []LineItem{
		{LabelBase, sound.Rate.Base(hours)},
		{LabelExtra, sound.Rate.Overage(hours)},
		{LabelVisual, visualCost},
		{LabelDJ, dj.Rate.Cost(hours)},
		{LabelAddon, addon.Rate.Cost(hours)},
		{LabelWater, water.Rate.Cost(hours)},
		{LabelFuel, fuel.Rate.Cost(hours)},
		{LabelTravel, travelMiles.Mul(ratePerMile)},
	}

	b := &Breakdown{
		Total:       decimal.Zero,
		Hours:       hours,
		TravelMiles: travelMiles,
		Lines:       make([]LineItem, 0, len(amounts)),
	}
	for _, item := range amounts {
		b.Total = b.Total.Add(item.Amount)
		if !item.Amount.IsZero() {
			b.Lines = append(b.Lines, item)
		}
	}
	b.PerHour = b.Total.Div(hours).Round(2)

	return b, nil
}
