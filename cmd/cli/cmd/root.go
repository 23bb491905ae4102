// Package cmd provides the CLI commands for quote-calc.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quote-calculator/internal/app"
	"quote-calculator/internal/config"
	"quote-calculator/internal/logging"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quote-calc",
	Short: "Quote event sound, lighting and power packages",
	Long: `quote-calc prices event packages per location: sound, DJ, visuals,
power add-ons, water and fuel service, plus travel from the location origin.

Examples:
  quote-calc quote --hours 6 --set sound=premium --set dj=professional
  quote-calc quote --location chicago --address "Highland Park, IL"
  quote-calc distance --location sa-atx "600 E Market St, San Antonio"
  quote-calc catalog
  quote-calc serve --addr :3000`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the CLI
func Execute() error {
	err := rootCmd.Execute()
	logging.Sync()
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.{yaml,json})")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(distanceCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	return nil
}

func newApp() (*app.App, error) {
	return app.New(cfg, logging.Named("cli"))
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quote-calc version %s\n", app.Version)
	},
}
