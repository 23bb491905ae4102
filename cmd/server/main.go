// Package main - Entry point for the quote calculator server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"quote-calculator/internal/app"
	"quote-calculator/internal/config"
	"quote-calculator/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "", "Config file")
	addr := flag.String("addr", "", "Server address (overrides server.addr)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
	}
	defer logging.Sync()

	a, err := app.New(cfg, logging.Named("server"))
	if err != nil {
		logging.Logger.Fatal("startup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Quote Calculator Server v%s\n", app.Version)
	fmt.Printf("   API: http://localhost%s/api\n", cfg.Server.Addr)
	fmt.Printf("   UI:  http://localhost%s\n", cfg.Server.Addr)
	fmt.Println()

	if err := a.Server().ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		logging.Logger.Error("server stopped", zap.Error(err))
		stop()
		logging.Sync()
		os.Exit(1)
	}
}
