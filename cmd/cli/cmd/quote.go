// Package cmd - quote command
package cmd

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"quote-calculator/core/output"
	"quote-calculator/core/pricing"
	"quote-calculator/core/selection"
	"quote-calculator/core/session"
	"quote-calculator/core/ui"
)

var (
	quoteLocation string
	quoteHours    string
	quoteAddress  string
	quoteSet      map[string]string
	quoteFormat   string
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a quote for a set of options",
	Long: `Compute an itemized quote. Every category starts at its first tier;
--set overrides one category at a time. Dependent groups are applied after
their parents, so --set addon=cooling --set water=tank works in any order.

Examples:
  quote-calc quote
  quote-calc quote --hours 6 --set sound=premium
  quote-calc quote --location chicago --set sound=wallOfBass --address "Highland Park, IL"
  quote-calc quote --format json --set addon=generator --set fuel=generatorRun`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteLocation, "location", "l", "", "location id (default: first in catalog)")
	quoteCmd.Flags().StringVarP(&quoteHours, "hours", "H", "", "event length in hours (default 4)")
	quoteCmd.Flags().StringVarP(&quoteAddress, "address", "a", "", "event address for travel cost")
	quoteCmd.Flags().StringToStringVarP(&quoteSet, "set", "s", nil, "category=tier selection, repeatable")
	quoteCmd.Flags().StringVarP(&quoteFormat, "format", "f", "cli", "output format (cli, json)")
}

func runQuote(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	formatter, err := output.ForFormat(quoteFormat, noColor)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	sess, err := session.New(a.Controller, a.Resolver,
		session.WithLocation(quoteLocation),
		session.WithLogger(a.Logger),
	)
	if err != nil {
		return err
	}

	events, err := quoteEvents()
	if err != nil {
		return err
	}
	for _, ev := range events {
		if _, err := sess.Dispatch(ctx, ev); err != nil {
			return err
		}
	}

	if quoteAddress != "" {
		w := ui.NewWriter(cmd.ErrOrStderr(), noColor)
		spinner := w.NewSpinner("Resolving " + quoteAddress)
		if formatter.Format() == output.FormatCLI {
			spinner.Start()
		}
		if _, err := sess.Dispatch(ctx, selection.SetAddress{Address: quoteAddress}); err != nil {
			return err
		}
		sess.Wait()
		if formatter.Format() == output.FormatCLI {
			spinner.Stop(sess.View().Distance.Message == "")
		}
	}

	return formatter.Render(cmd.OutOrStdout(), sess.View())
}

// quoteEvents turns flags into events, parents before dependents
func quoteEvents() ([]selection.Event, error) {
	var events []selection.Event

	if quoteHours != "" {
		h, err := decimal.NewFromString(quoteHours)
		if err != nil {
			return nil, fmt.Errorf("invalid --hours %q: %w", quoteHours, err)
		}
		events = append(events, selection.SetHours{Hours: h})
	}

	var unknown []string
	for k := range quoteSet {
		if !pricing.Category(k).Valid() {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown categories %v (want one of %v)", unknown, pricing.Categories)
	}

	for _, c := range pricing.Categories {
		if tier, ok := quoteSet[string(c)]; ok {
			events = append(events, selection.PickTier{Category: c, Tier: tier})
		}
	}
	return events, nil
}
