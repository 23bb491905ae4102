// Package cmd - catalog commands
package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"quote-calculator/core/pricing"
	"quote-calculator/core/ui"
	"quote-calculator/internal/app"
)

var catalogJSON bool

// catalogCmd lists locations and tiers
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the pricing catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

// catalogValidateCmd checks a catalog file
var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file.hcl>",
	Short: "Validate a catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := ui.NewWriter(cmd.OutOrStdout(), noColor)
		c, err := pricing.LoadFile(args[0])
		if err != nil {
			w.Error("%v", err)
			return err
		}
		w.Success("%s: version %s, %d locations", args[0], c.Version, len(c.Profiles()))
		return nil
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "print as JSON")
	catalogCmd.AddCommand(catalogValidateCmd)
}

type catalogTier struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Code  string `json:"code"`
	Price string `json:"price"`
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	c, err := app.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	if catalogJSON {
		out := map[string]map[pricing.Category][]catalogTier{}
		for _, p := range c.Profiles() {
			cats := map[pricing.Category][]catalogTier{}
			for _, cat := range pricing.Categories {
				for _, t := range p.TiersFor(cat) {
					cats[cat] = append(cats[cat], catalogTier{t.Name, t.Label, t.Code, t.Rate.Describe()})
				}
			}
			out[p.ID] = cats
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := ui.NewWriter(cmd.OutOrStdout(), noColor)
	for _, p := range c.Profiles() {
		w.Header(p.Label + " (" + p.ID + ")")
		w.Println("origin %v, $%s/mile", p.Origin.Pair(), p.RatePerMile.String())
		if len(p.Bundles) > 0 {
			w.Println("bundles include visuals: %s", strings.Join(p.Bundles, ", "))
		}
		w.Println("")

		w.SubHeader("Tiers")
		tbl := w.NewTable("Category", "Tier", "Code", "Price")
		for _, cat := range pricing.Categories {
			for _, t := range p.TiersFor(cat) {
				tbl.AddRow(cat.String(), t.Label, t.Code, t.Rate.Describe())
			}
		}
		tbl.Render()
	}
	return nil
}
