// Package main provides the ideation binary entry point.
// Ideation is an AI-backed business advisory API: market research, naming,
// business-type assessment, onboarding, profile extraction, task generation
// and strategic analysis for aspiring Swedish founders.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	// Register LLM providers via init()
	_ "github.com/robin-app/ideation/llm/providers"

	"github.com/robin-app/ideation/advisor"
	"github.com/robin-app/ideation/advisor/analysis"
	"github.com/robin-app/ideation/advisor/entity"
	"github.com/robin-app/ideation/advisor/naming"
	"github.com/robin-app/ideation/advisor/profile"
	"github.com/robin-app/ideation/advisor/research"
	"github.com/robin-app/ideation/advisor/tasks"
	"github.com/robin-app/ideation/config"
	"github.com/robin-app/ideation/knowledge"
	"github.com/robin-app/ideation/llm"
	"github.com/robin-app/ideation/server"
	"github.com/robin-app/ideation/webfetch"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ideation"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "AI business advisory API",
		Long: `Ideation serves the AI-backed advisory endpoints for business
founders: market research, name suggestions, business-type assessment,
onboarding chat, profile extraction, task generation and strategic analysis.

Model replies are normalized against per-task schemas; a reply that cannot
be repaired triggers one corrective retry before the request fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, logLevel)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, logLevel)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func runServe(configPath, logLevel string) error {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := llm.NewClient(cfg.Model.Provider, cfg.Model.Endpoint, cfg.Model.Name,
		llm.WithLogger(logger),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}),
	)
	if err != nil {
		return fmt.Errorf("create model client: %w", err)
	}

	kb, err := knowledge.NewStore(cfg.Knowledge.Path)
	if err != nil {
		return fmt.Errorf("load knowledge base: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Knowledge.Watch && cfg.Knowledge.Path != "" {
		go func() {
			if err := kb.Watch(ctx, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Knowledge overlay watch stopped", "path", cfg.Knowledge.Path, "error", err)
			}
		}()
	}

	engine := advisor.NewEngine(client, advisor.WithLogger(logger))
	profileSvc := profile.NewService(engine)

	srv := server.New(cfg.Server.Addr, server.Services{
		Research: research.NewService(engine),
		Naming:   naming.NewService(engine),
		Entity:   entity.NewService(engine),
		Profile:  profileSvc,
		Tasks:    tasks.NewService(engine, kb),
		Analysis: analysis.NewService(engine, kb, webfetch.NewFetcher(), logger),
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("Ideation ready",
		"version", Version,
		"provider", cfg.Model.Provider,
		"model", cfg.Model.Name)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadConfig loads configuration from an explicit path, or through the
// layered loader when no path is given.
func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.NewLoader(logger).Load()
}
