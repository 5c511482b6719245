// Package main provides the entry point for the mcp-apps preview server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/apigene/mcp-apps/internal/server"
	"github.com/apigene/mcp-apps/pkg/config"
	"github.com/apigene/mcp-apps/pkg/preview"
	"github.com/apigene/mcp-apps/pkg/recorder"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type previewOptions struct {
	configPath  string
	address     string
	fixturesDir string
	record      bool
	logLevel    string
	showVersion bool
}

func parseFlags() previewOptions {
	opts := previewOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.address, "address", "", "Preview server address")
	flag.StringVar(&opts.fixturesDir, "fixtures", "", "Directory of <app>.json fixture payloads")
	flag.BoolVar(&opts.record, "record", false, "Record channel traffic to SQLite")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("mcp-apps-preview version %s\n", mcpserver.Version)
		return nil
	}

	setupLogger(opts.logLevel)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.address != "" {
		cfg.Preview.Address = opts.address
	}
	if opts.fixturesDir != "" {
		cfg.Preview.FixturesDir = opts.fixturesDir
	}
	if opts.record {
		cfg.Record.Enabled = true
	}

	catalog, err := mcpserver.BuildCatalog(cfg)
	if err != nil {
		return fmt.Errorf("building app catalog: %w", err)
	}

	ctx := setupSignalHandler()

	var previewOpts []preview.Option
	if cfg.Record.Enabled {
		store, err := recorder.Open(cfg.Record.Path)
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		defer store.Close()
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("initializing session store: %w", err)
		}
		slog.Info("recording channel traffic", "path", store.Path())
		previewOpts = append(previewOpts, preview.WithRecorder(store))
	}

	srv := preview.New(preview.Config{
		Address:        cfg.Preview.Address,
		FixturesDir:    cfg.Preview.FixturesDir,
		Watch:          cfg.Preview.Watch,
		RequestTimeout: cfg.Preview.RequestTimeout,
	}, catalog, previewOpts...)

	return srv.Run(ctx)
}
