// Package pricing - HCL catalog loading
package pricing

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	qerrors "quote-calculator/internal/errors"
)

//go:embed catalog.hcl
var builtinCatalog []byte

// BuiltinFilename is the name diagnostics use for the embedded catalog.
const BuiltinFilename = "builtin/catalog.hcl"

type catalogFile struct {
	Version   string          `hcl:"version"`
	Locations []locationBlock `hcl:"location,block"`
}

type locationBlock struct {
	ID          string            `hcl:"id,label"`
	Label       string            `hcl:"label,optional"`
	Origin      []float64         `hcl:"origin"`
	RatePerMile float64           `hcl:"rate_per_mile"`
	Bundles     []string          `hcl:"bundles,optional"`
	Cooling     []string          `hcl:"cooling,optional"`
	Categories  []categoryBlock   `hcl:"category,block"`
	FuelFilters []fuelFilterBlock `hcl:"fuel_filter,block"`
}

type categoryBlock struct {
	Name  string      `hcl:"name,label"`
	Tiers []tierBlock `hcl:"tier,block"`
}

type tierBlock struct {
	Name  string `hcl:"name,label"`
	Label string `hcl:"label,optional"`
	Code  string `hcl:"code"`
}

type fuelFilterBlock struct {
	Addon string   `hcl:"addon,label"`
	Tiers []string `hcl:"tiers"`
}

// Parse decodes and validates an HCL catalog.
// Any problem is a configuration error; callers are expected to fail startup on it.
func Parse(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, qerrors.Config("parse catalog "+filename, diagError(diags))
	}

	var raw catalogFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, qerrors.Config("decode catalog "+filename, diagError(diags))
	}

	profiles, errs := buildProfiles(raw)
	if len(errs) > 0 {
		return nil, qerrors.Config(
			fmt.Sprintf("catalog %s has %d validation errors", filename, len(errs)),
			stderrors.Join(errs...),
		)
	}

	return NewCatalog(raw.Version, profiles), nil
}

// LoadFile reads a catalog from disk
func LoadFile(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, qerrors.Config("read catalog", err).WithContext("path", path)
	}
	return Parse(src, path)
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
)

// Builtin returns the embedded default catalog; it panics if the embedded file is invalid
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		c, err := Parse(builtinCatalog, BuiltinFilename)
		if err != nil {
			panic(fmt.Sprintf("pricing: builtin catalog: %v", err))
		}
		builtin = c
	})
	return builtin
}

func buildProfiles(raw catalogFile) ([]*Profile, []error) {
	var errs []error
	if len(raw.Locations) == 0 {
		return nil, []error{fmt.Errorf("no locations declared")}
	}

	seen := make(map[string]bool)
	var profiles []*Profile
	for _, loc := range raw.Locations {
		if seen[loc.ID] {
			errs = append(errs, fmt.Errorf("location %q declared twice", loc.ID))
			continue
		}
		seen[loc.ID] = true

		p, perrs := buildProfile(loc)
		for _, e := range perrs {
			errs = append(errs, fmt.Errorf("location %q: %w", loc.ID, e))
		}
		if len(perrs) == 0 {
			profiles = append(profiles, p)
		}
	}
	return profiles, errs
}

func buildProfile(loc locationBlock) (*Profile, []error) {
	var errs []error

	p := &Profile{
		ID:          loc.ID,
		Label:       loc.Label,
		RatePerMile: decimal.NewFromFloat(loc.RatePerMile),
		Tiers:       make(map[Category][]Tier),
		Bundles:     loc.Bundles,
		Cooling:     loc.Cooling,
		FuelFilters: make(map[string][]string),
	}
	if p.Label == "" {
		p.Label = loc.ID
	}

	if len(loc.Origin) != 2 {
		errs = append(errs, fmt.Errorf("origin must be [lng, lat], got %d values", len(loc.Origin)))
	} else {
		p.Origin = Coordinate{Lng: loc.Origin[0], Lat: loc.Origin[1]}
		if p.Origin.Lng < -180 || p.Origin.Lng > 180 || p.Origin.Lat < -90 || p.Origin.Lat > 90 {
			errs = append(errs, fmt.Errorf("origin %v out of range", loc.Origin))
		}
	}
	if loc.RatePerMile < 0 {
		errs = append(errs, fmt.Errorf("rate_per_mile must not be negative"))
	}

	for _, cb := range loc.Categories {
		cat := Category(cb.Name)
		if !cat.Valid() {
			errs = append(errs, fmt.Errorf("unknown category %q", cb.Name))
			continue
		}
		if _, dup := p.Tiers[cat]; dup {
			errs = append(errs, fmt.Errorf("category %q declared twice", cb.Name))
			continue
		}
		names := make(map[string]bool)
		tiers := make([]Tier, 0, len(cb.Tiers))
		for _, tb := range cb.Tiers {
			if names[tb.Name] {
				errs = append(errs, fmt.Errorf("%s tier %q declared twice", cat, tb.Name))
				continue
			}
			names[tb.Name] = true

			rate, err := ParseRateCode(cat, tb.Code)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s tier %q: %w", cat, tb.Name, err))
				continue
			}
			label := tb.Label
			if label == "" {
				label = tb.Name
			}
			tiers = append(tiers, Tier{
				Category:        cat,
				Name:            tb.Name,
				Label:           label,
				Code:            tb.Code,
				Rate:            rate,
				IncludesVisuals: cat == CategorySound && contains(loc.Bundles, tb.Name),
			})
		}
		p.Tiers[cat] = tiers
	}

	if len(p.Tiers[CategorySound]) == 0 {
		errs = append(errs, fmt.Errorf("sound category must declare at least one tier"))
	}
	for _, b := range loc.Bundles {
		if _, ok := p.Tier(CategorySound, b); !ok {
			errs = append(errs, fmt.Errorf("bundle %q is not a sound tier", b))
		}
	}
	for _, c := range loc.Cooling {
		if _, ok := p.Tier(CategoryAddon, c); !ok {
			errs = append(errs, fmt.Errorf("cooling %q is not an addon tier", c))
		}
	}
	for _, ff := range loc.FuelFilters {
		if _, ok := p.Tier(CategoryAddon, ff.Addon); !ok {
			errs = append(errs, fmt.Errorf("fuel_filter %q is not an addon tier", ff.Addon))
		}
		if _, dup := p.FuelFilters[ff.Addon]; dup {
			errs = append(errs, fmt.Errorf("fuel_filter %q declared twice", ff.Addon))
			continue
		}
		for _, ft := range ff.Tiers {
			if _, ok := p.Tier(CategoryFuel, ft); !ok {
				errs = append(errs, fmt.Errorf("fuel_filter %q references unknown fuel tier %q", ff.Addon, ft))
			}
		}
		p.FuelFilters[ff.Addon] = ff.Tiers
	}

	return p, errs
}

func diagError(diags hcl.Diagnostics) error {
	var errs []error
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		errs = append(errs, d)
	}
	return stderrors.Join(errs...)
}
