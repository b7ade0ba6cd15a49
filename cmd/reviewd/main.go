// Package main provides the reviewd binary entry point.
// Reviewd is a repository quality reviewer: clients submit a repo URL or zip
// upload, a worker evaluates quality rules against the tree and clients poll
// for the scored result.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/maiconbalke/MVP-Review-Tools/internal/api"
	"github.com/maiconbalke/MVP-Review-Tools/internal/config"
	"github.com/maiconbalke/MVP-Review-Tools/internal/queue"
	"github.com/maiconbalke/MVP-Review-Tools/internal/rules"
	"github.com/maiconbalke/MVP-Review-Tools/internal/worker"
)

const (
	Version = "0.1.0"
	appName = "reviewd"
)

func main() {
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
		Short: "Repository quality reviewer",
		Long: `Reviewd accepts repository analysis requests over HTTP, queues them on
the filesystem and scores them against a policy-weighted rule registry.

Run the API and worker together with "serve", or separately with the
"api" and "worker" subcommands.`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "api",
			Short: "Run the HTTP API only",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(configPath, logLevel, true, false)
			},
		},
		&cobra.Command{
			Use:   "worker",
			Short: "Run the worker loop only",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(configPath, logLevel, false, true)
			},
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the worker in one process",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(configPath, logLevel, true, true)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

func run(configPath, logLevel string, withAPI, withWorker bool) error {
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := queue.NewStore(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("initialize queue store: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)

	if withWorker {
		w := worker.New(store, rules.Registry(), worker.Config{
			PoliciesDir:  cfg.PoliciesDir,
			PollInterval: time.Duration(cfg.Worker.PollInterval),
		}, logger)
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("worker: %w", err)
				return
			}
			errCh <- nil
		}()
	}

	if withAPI {
		srv := &http.Server{
			Addr:         cfg.Listen,
			Handler:      api.NewServer(store, cfg, logger).Router(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Minute,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		go func() {
			logger.Info("api listening", slog.String("addr", cfg.Listen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("api: %w", err)
				return
			}
			errCh <- nil
		}()
	}

	count := 0
	if withAPI {
		count++
	}
	if withWorker {
		count++
	}
	for i := 0; i < count; i++ {
		if err := <-errCh; err != nil {
			stop()
			return err
		}
	}
	return nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
