// Package cmd - distance command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quote-calculator/core/selection"
	"quote-calculator/core/ui"
	qerrors "quote-calculator/internal/errors"
)

var distanceLocation string

// distanceCmd represents the distance command
var distanceCmd = &cobra.Command{
	Use:   "distance <address>",
	Short: "Resolve driving miles and travel cost to an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runDistance,
}

func init() {
	distanceCmd.Flags().StringVarP(&distanceLocation, "location", "l", "", "location id (default: first in catalog)")
}

func runDistance(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	profile := a.Catalog.DefaultProfile()
	if distanceLocation != "" {
		if profile, err = a.Catalog.Profile(distanceLocation); err != nil {
			return err
		}
	}

	w := ui.NewWriter(cmd.OutOrStdout(), noColor)
	miles, err := a.Resolver.Resolve(cmd.Context(), args[0], profile.Origin)
	if err != nil {
		w.Error("%s", qerrors.Summary(err))
		return err
	}

	dv := selection.DistanceView{Miles: miles, Cost: miles.Mul(profile.RatePerMile).Round(2)}
	w.Success("%s from %s: %s", args[0], profile.Label, dv.Text())
	w.Debug("rate %s/mile", profile.RatePerMile.String())
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "origin %v\n", profile.Origin.Pair())
	}
	return nil
}
