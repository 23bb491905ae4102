// Package pricing - Rate codes and the location-keyed pricing catalog.
// Rate codes are decoded exactly once, at catalog load, into a Rate value.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	qerrors "quote-calculator/internal/errors"
)

// Category is an option group a customer picks one tier from
type Category string

const (
	CategorySound  Category = "sound"
	CategoryDJ     Category = "dj"
	CategoryVisual Category = "visual"
	CategoryAddon  Category = "addon"
	CategoryWater  Category = "water"
	CategoryFuel   Category = "fuel"
)

// Categories lists every category in canonical order.
var Categories = []Category{
	CategorySound,
	CategoryDJ,
	CategoryVisual,
	CategoryAddon,
	CategoryWater,
	CategoryFuel,
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}

// Kind distinguishes the shapes a rate can take
type Kind int

const (
	// KindDisabled - no charge, option off
	KindDisabled Kind = iota
	// KindFlat - fixed amount regardless of hours
	KindFlat
	// KindHourly - rate multiplied by every hour
	KindHourly
	// KindTiered - base covers included hours, overage billed per extra hour
	KindTiered
)

// String returns string representation
func (k Kind) String() string {
	switch k {
	case KindDisabled:
		return "disabled"
	case KindFlat:
		return "flat"
	case KindHourly:
		return "hourly"
	case KindTiered:
		return "tiered"
	default:
		return "unknown"
	}
}

// NoCharge is the rate code for a disabled or unselected option.
const NoCharge = "0"

// Rate is a decoded price rule
type Rate struct {
	// Kind selects which fields are meaningful
	Kind Kind `json:"kind"`

	// Amount is the flat amount, the hourly rate, or the tiered base
	Amount decimal.Decimal `json:"amount"`

	// IncludedHours is covered by the tiered base
	IncludedHours decimal.Decimal `json:"included_hours"`

	// ExtraRate is charged per hour beyond IncludedHours
	ExtraRate decimal.Decimal `json:"extra_rate"`
}

// Disabled returns the no-charge rate
func Disabled() Rate {
	return Rate{Kind: KindDisabled}
}

// Flat returns a fixed-amount rate
func Flat(amount decimal.Decimal) Rate {
	return Rate{Kind: KindFlat, Amount: amount}
}

// Hourly returns a per-hour rate
func Hourly(rate decimal.Decimal) Rate {
	return Rate{Kind: KindHourly, Amount: rate}
}

// Tiered returns a base-plus-overage rate
func Tiered(base, includedHours, extraRate decimal.Decimal) Rate {
	return Rate{Kind: KindTiered, Amount: base, IncludedHours: includedHours, ExtraRate: extraRate}
}

// IsDisabled reports whether the rate never charges anything
func (r Rate) IsDisabled() bool {
	return r.Kind == KindDisabled
}

// Base returns the charge excluding overage for the given hours
func (r Rate) Base(hours decimal.Decimal) decimal.Decimal {
	switch r.Kind {
	case KindFlat, KindTiered:
		return r.Amount
	case KindHourly:
		return r.Amount.Mul(hours)
	default:
		return decimal.Zero
	}
}

// Overage returns the extra-hours charge; never negative
func (r Rate) Overage(hours decimal.Decimal) decimal.Decimal {
	if r.Kind != KindTiered {
		return decimal.Zero
	}
	extra := hours.Sub(r.IncludedHours)
	if !extra.IsPositive() {
		return decimal.Zero
	}
	return extra.Mul(r.ExtraRate)
}

// Cost returns the full charge for the given hours
func (r Rate) Cost(hours decimal.Decimal) decimal.Decimal {
	return r.Base(hours).Add(r.Overage(hours))
}

// Describe renders the rate for option cards, e.g. "$250 base (4hrs), +$40/hr after"
func (r Rate) Describe() string {
	switch r.Kind {
	case KindFlat:
		return fmt.Sprintf("$%s flat", r.Amount.String())
	case KindHourly:
		return fmt.Sprintf("$%s/hr", r.Amount.String())
	case KindTiered:
		return fmt.Sprintf("$%s base (%shrs), +$%s/hr after",
			r.Amount.String(), r.IncludedHours.String(), r.ExtraRate.String())
	default:
		return "included"
	}
}

// ParseRateCode decodes a positional rate code for a category.
//
//	"0"                 disabled everywhere
//	"N"                 hourly for dj, water and fuel; flat elsewhere
//	"base-0" / "base-1" flat / hourly
//	"base-incl-extra"   tiered; flat(base) for dj; hourly(extra) for water and fuel when incl is 0
func ParseRateCode(category Category, code string) (Rate, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Rate{}, qerrors.Inputf("%s: empty rate code", category)
	}
	if code == NoCharge {
		return Disabled(), nil
	}

	parts := strings.Split(code, "-")
	fields := make([]decimal.Decimal, len(parts))
	for i, p := range parts {
		d, err := decimal.NewFromString(p)
		if err != nil {
			return Rate{}, qerrors.Wrapf(qerrors.TypeInput, err, "%s: malformed rate code %q", category, code)
		}
		if d.IsNegative() {
			return Rate{}, qerrors.Inputf("%s: negative field in rate code %q", category, code)
		}
		fields[i] = d
	}

	switch len(fields) {
	case 1:
		switch category {
		case CategoryDJ, CategoryWater, CategoryFuel:
			return Hourly(fields[0]), nil
		default:
			return Flat(fields[0]), nil
		}

	case 2:
		switch {
		case fields[1].Equal(decimal.Zero):
			return Flat(fields[0]), nil
		case fields[1].Equal(decimal.NewFromInt(1)):
			return Hourly(fields[0]), nil
		default:
			return Rate{}, qerrors.Inputf("%s: unknown marker in rate code %q", category, code)
		}

	case 3:
		base, included, extra := fields[0], fields[1], fields[2]
		switch category {
		case CategoryDJ:
			return Flat(base), nil
		case CategoryWater, CategoryFuel:
			if included.IsZero() {
				return Hourly(extra), nil
			}
			return Tiered(base, included, extra), nil
		case CategoryVisual:
			return Rate{}, qerrors.Inputf("%s: tiered rate code %q not allowed", category, code)
		default:
			return Tiered(base, included, extra), nil
		}
	}

	return Rate{}, qerrors.Inputf("%s: rate code %q has %d fields", category, code, len(fields))
}
