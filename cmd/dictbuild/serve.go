package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hoverdict/dictbuild/pkg/api"
	"github.com/hoverdict/dictbuild/pkg/dict"
	"github.com/mark3labs/mcp-go/server"
)

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "path to config file")
	dictPath := fs.String("dict", "", "dictionary file (default <project>/"+defaultDictRel+")")
	addr := fs.String("addr", "", "listen address (default from config)")
	fs.Parse(args)

	cfg, logger := setup(fs, *cfgPath)
	if *addr != "" {
		cfg.Addr = *addr
	}

	reg := loadRegistry(cfg, *dictPath)
	logger.Info("dictionary loaded", "path", reg.Info().Path, "entries", reg.Len())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewRouter(reg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// SIGHUP: hot reload the dictionary.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading dictionary")
			if err := reg.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
			} else {
				logger.Info("dictionary reloaded", "entries", reg.Len())
			}
		}
	}()

	go func() {
		logger.Info("dictbuild preview listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", defaultConfigPath, "path to config file")
	dictPath := fs.String("dict", "", "dictionary file (default <project>/"+defaultDictRel+")")
	fs.Parse(args)

	cfg, logger := setup(fs, *cfgPath)
	reg := loadRegistry(cfg, *dictPath)
	logger.Info("dictionary loaded", "path", reg.Info().Path, "entries", reg.Len())

	srv := server.NewMCPServer("dictbuild", version, server.WithToolCapabilities(false))
	api.RegisterMCPTools(srv, reg, logger)

	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server", "error", err)
		os.Exit(1)
	}
}

// loadRegistry resolves the dictionary path (flag, then config, then the
// project default) and loads it, exiting on failure.
func loadRegistry(cfg *Config, flagPath string) *dict.Registry {
	path := flagPath
	if path == "" {
		path = cfg.Dict
	}
	if path == "" {
		path = defaultOutput(workingRoot())
	}

	reg := dict.NewRegistry(path, cfg.ManifestPath)
	if err := reg.Load(); err != nil {
		slog.Error("failed to load dictionary", "path", path, "error", err)
		os.Exit(1)
	}
	return reg
}
