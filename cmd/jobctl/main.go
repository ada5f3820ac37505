package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Harsh-BH/fieldtools/internal/bootstrap"
	"github.com/Harsh-BH/fieldtools/internal/cli"
	"github.com/Harsh-BH/fieldtools/internal/config"
	"github.com/Harsh-BH/fieldtools/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("jobctl", flag.ContinueOnError)
	backend := fs.String("store", "", "store backend: file, sheet, postgres or badger (default STORE_BACKEND)")
	verbose := fs.Bool("v", false, "log to stderr")

	app := &cli.App{
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	fs.Usage = app.Usage
	if err := fs.Parse(os.Args[1:]); err != nil {
		return cli.ExitUsage
	}
	if fs.NArg() == 0 {
		app.Usage()
		return cli.ExitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobctl: %v\n", err)
		return cli.ExitFailure
	}

	logger := zap.NewNop()
	if *verbose {
		if logger, err = bootstrap.NewLogger(cfg.Log.Level); err != nil {
			fmt.Fprintf(os.Stderr, "jobctl: %v\n", err)
			return cli.ExitFailure
		}
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, *backend, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobctl: open store: %v\n", err)
		return cli.ExitFailure
	}
	defer store.Close()

	loc, err := cfg.Store.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobctl: %v\n", err)
		return cli.ExitFailure
	}

	// Jobs added from the CLI reach the sheet exporter too when a broker is configured.
	pub, err := bootstrap.OpenPublisher(cfg, logger)
	if err != nil {
		logger.Warn("Publisher unavailable, continuing without events", zap.Error(err))
		pub = nil
	}
	opts := []usecase.Option{usecase.WithBuilder(store.Builder(loc))}
	if pub != nil {
		defer pub.Close()
		opts = append(opts, usecase.WithPublisher(pub))
	}

	app.Service = usecase.NewJobService(store.Jobs, logger, opts...)
	return app.Run(ctx, fs.Args())
}
