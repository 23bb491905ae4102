// Package cmd - serve command
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveAddr   string
	servePublic string
)

// serveCmd runs the HTTP backend
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend and static front-end",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		if servePublic != "" {
			cfg.Server.PublicDir = servePublic
		}

		a, err := newApp()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a.Logger.Info("starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("public_dir", cfg.Server.PublicDir),
		)
		return a.Server().ListenAndServe(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().StringVar(&servePublic, "public", "", "static files directory (overrides server.public_dir)")
}
