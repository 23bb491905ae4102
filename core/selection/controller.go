// Package selection - Transition rules
package selection

import (
	"strings"

	"github.com/shopspring/decimal"

	"quote-calculator/core/pricing"
	"quote-calculator/core/quote"
	qerrors "quote-calculator/internal/errors"
)

// DefaultHours is the event length a fresh state starts with
var DefaultHours = decimal.NewFromInt(4)

// Controller applies events to states against a catalog
type Controller struct {
	catalog *pricing.Catalog
}

// NewController creates a controller
func NewController(catalog *pricing.Catalog) *Controller {
	return &Controller{catalog: catalog}
}

// Catalog returns the catalog the controller resolves tiers against
func (c *Controller) Catalog() *pricing.Catalog {
	return c.catalog
}

// Initial builds the starting state for a location (empty means the catalog default)
func (c *Controller) Initial(location string) (State, error) {
	profile, err := c.profile(location)
	if err != nil {
		return State{}, err
	}
	sel, vis := reset(profile)
	return State{
		Location:   profile.ID,
		Hours:      DefaultHours,
		Selection:  sel,
		Visibility: vis,
	}, nil
}

// Apply runs one transition. On error the input state is returned unchanged.
func (c *Controller) Apply(s State, ev Event) (State, Effects, error) {
	switch e := ev.(type) {
	case PickTier:
		return c.pickTier(s, e)

	case SwitchLocation:
		profile, err := c.profile(e.Location)
		if err != nil {
			return s, Effects{}, err
		}
		next := s
		next.Location = profile.ID
		next.Selection, next.Visibility = reset(profile)
		return next, Effects{Recompute: true, ResolveAddress: s.Address}, nil

	case SetHours:
		if !e.Hours.IsPositive() {
			return s, Effects{}, qerrors.Inputf("hours must be positive, got %s", e.Hours.String())
		}
		next := s
		next.Hours = e.Hours
		return next, Effects{Recompute: true}, nil

	case SetAddress:
		next := s
		next.Address = strings.TrimSpace(e.Address)
		if next.Address == "" {
			return next, Effects{Recompute: true}, nil
		}
		return next, Effects{ResolveAddress: next.Address}, nil
	}

	return s, Effects{}, qerrors.Inputf("unsupported event %T", ev)
}

// Quote computes the breakdown for a state and a travel distance
func (c *Controller) Quote(s State, travelMiles decimal.Decimal) (*quote.Breakdown, error) {
	profile, err := c.profile(s.Location)
	if err != nil {
		return nil, err
	}
	return quote.Compute(s.Selection, s.Hours, travelMiles, profile.RatePerMile)
}

// Profile returns the active profile of a state
func (c *Controller) Profile(s State) (*pricing.Profile, error) {
	return c.profile(s.Location)
}

func (c *Controller) profile(location string) (*pricing.Profile, error) {
	if location == "" {
		if p := c.catalog.DefaultProfile(); p != nil {
			return p, nil
		}
		return nil, qerrors.NotFound("location", "default")
	}
	return c.catalog.Profile(location)
}

func (c *Controller) pickTier(s State, e PickTier) (State, Effects, error) {
	if !e.Category.Valid() {
		return s, Effects{}, qerrors.Inputf("unknown category %q", e.Category)
	}
	profile, err := c.profile(s.Location)
	if err != nil {
		return s, Effects{}, err
	}

	view := s.Visibility[e.Category]
	switch {
	case !view.Visible:
		return s, Effects{}, qerrors.Inputf("%s options are not available", e.Category)
	case !view.Enabled:
		return s, Effects{}, qerrors.Inputf("%s is included with the selected sound package", e.Category)
	case !view.Allows(e.Tier):
		return s, Effects{}, qerrors.Inputf("%s tier %q is not available in %s", e.Category, e.Tier, profile.ID)
	}

	tier, ok := profile.Tier(e.Category, e.Tier)
	if !ok {
		return s, Effects{}, qerrors.Inputf("%s tier %q is not available in %s", e.Category, e.Tier, profile.ID)
	}

	sel := s.Selection.With(e.Category, quote.ChoiceOf(tier))
	if e.Category == pricing.CategorySound && tier.IncludesVisuals {
		sel = sel.With(pricing.CategoryVisual, quote.Off())
	}

	next := s
	next.Visibility = derive(profile, sel)
	next.Selection = normalize(profile, sel, next.Visibility)
	return next, Effects{Recompute: true}, nil
}

// reset selects the first visible tier of every category
func reset(profile *pricing.Profile) (quote.Selection, Visibility) {
	sel := quote.NewSelection()
	for _, c := range []pricing.Category{pricing.CategorySound, pricing.CategoryDJ, pricing.CategoryAddon} {
		if t, ok := profile.TierAt(c, 0); ok {
			sel = sel.With(c, quote.ChoiceOf(t))
		}
	}

	vis := derive(profile, sel)
	for _, c := range []pricing.Category{pricing.CategoryVisual, pricing.CategoryWater, pricing.CategoryFuel} {
		v := vis[c]
		if !v.Visible || !v.Enabled || len(v.Tiers) == 0 {
			continue
		}
		if t, ok := profile.Tier(c, v.Tiers[0]); ok {
			sel = sel.With(c, quote.ChoiceOf(t))
		}
	}
	return sel, vis
}

// derive computes category visibility from the profile rules and current choices
func derive(profile *pricing.Profile, sel quote.Selection) Visibility {
	vis := make(Visibility, len(pricing.Categories))
	addon := sel.Get(pricing.CategoryAddon).Tier

	for _, c := range pricing.Categories {
		names := tierNames(profile.TiersFor(c))
		view := CategoryView{Visible: len(names) > 0, Enabled: true, Tiers: names}

		switch c {
		case pricing.CategoryVisual:
			view.Enabled = !sel.Get(pricing.CategorySound).IncludesVisuals
		case pricing.CategoryWater:
			view.Visible = view.Visible && profile.IsCooling(addon)
		case pricing.CategoryFuel:
			allowed, reveals := profile.FuelTiersFor(addon)
			view.Tiers = filter(names, allowed)
			view.Visible = reveals && len(view.Tiers) > 0
		}

		if !view.Visible {
			view.Tiers = []string{}
		}
		vis[c] = view
	}
	return vis
}

// normalize forces hidden or locked categories off and moves stale choices to the first allowed tier
func normalize(profile *pricing.Profile, sel quote.Selection, vis Visibility) quote.Selection {
	for _, c := range pricing.Categories {
		v := vis[c]
		cur := sel.Get(c)

		if !v.Visible || !v.Enabled {
			if cur.Code != pricing.NoCharge || cur.Tier != "" {
				sel = sel.With(c, quote.Off())
			}
			continue
		}
		if cur.Tier == "" && c == pricing.CategoryVisual {
			// visual stays off after leaving a bundle until the user picks again
			continue
		}
		if v.Allows(cur.Tier) {
			continue
		}
		if t, ok := profile.Tier(c, v.Tiers[0]); ok {
			sel = sel.With(c, quote.ChoiceOf(t))
		}
	}
	return sel
}

func tierNames(tiers []pricing.Tier) []string {
	names := make([]string, 0, len(tiers))
	for _, t := range tiers {
		names = append(names, t.Name)
	}
	return names
}

func filter(names, allowed []string) []string {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if set[n] {
			out = append(out, n)
		}
	}
	return out
}
