package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/Frank-III/PixeLana-further/internal/roomid"
	"github.com/Frank-III/PixeLana-further/internal/server"
)

var CLI struct {
	Config   string `short:"c" default:"pixelana.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Server address to bind to (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	clock := quartz.NewReal()
	srv := server.NewServer(cfg.GetServerAddress(), logger)
	registry := server.NewRegistry(cfg.GameConfig(), roomid.NewGenerator(nil), clock, logger)
	srv.SetGameService(server.NewGameService(srv, registry, logger))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	if cfg.SweepEnabled() {
		inUse := func(roomID string) bool { return len(srv.GetRoomPlayers(roomID)) > 0 }
		sweeper := server.NewSweeper(registry, inUse, cfg.SweepInterval(), cfg.SweepMaxIdle(), clock, logger)
		g.Go(func() error {
			if err := sweeper.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		return srv.Stop()
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		kctx.Exit(1)
	}
}
