package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"limen-hq/limen/pkg/audit"
	"limen-hq/limen/pkg/provision"
	"limen-hq/limen/pkg/telemetry/metrics"
)

var runFlags struct {
	once bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run in watch mode, recompiling on policy changes",
	Long: `Compile and provision once, then keep watching the policy document and
recompile whenever it changes. Serves Prometheus metrics and runs the
audit retention scheduler while active.

A policy edit that fails validation is logged and audited but leaves the
previously provisioned files untouched.

Examples:
  # Watch with defaults
  limen run

  # Single pass (equivalent to 'limen compile') with metrics disabled
  limen run --once`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFlags.once, "once", false, "compile once and exit")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openAuditStore(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled && !runFlags.once {
		collector = metrics.NewCollector(nil)
	}

	p := newPipeline(cfg, store, collector)

	// Initial pass. A validation failure at startup is fatal: there is
	// no previously provisioned state worth protecting.
	if _, err := p.compileOnce(ctx); err != nil {
		return exitCodeFor(fmt.Errorf("initial compile failed: %w", err))
	}
	if runFlags.once {
		return nil
	}

	// Audit retention scheduler.
	if store != nil {
		sched := audit.NewScheduler(store, audit.RetentionConfig{
			Days:     cfg.Audit.Retention.Days,
			Schedule: cfg.Audit.Retention.Schedule,
		})
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	// Metrics endpoint.
	if collector != nil {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, collector.Handler())
		srv := &http.Server{
			Addr:         cfg.Metrics.ListenAddress,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("metrics endpoint listening",
				"address", cfg.Metrics.ListenAddress,
				"path", cfg.Metrics.Path,
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Policy watcher. Recompile failures are logged inside the watcher
	// loop; the previously provisioned files stay in place.
	if !cfg.Policy.Watch {
		slog.Info("policy watch disabled, waiting for shutdown signal")
		<-ctx.Done()
		return nil
	}

	watcher, err := provision.NewWatcher(cfg.Policy.Path, cfg.Policy.DebounceInterval, slog.Default())
	if err != nil {
		return err
	}
	defer watcher.Stop()

	return watcher.Watch(ctx, func() error {
		_, err := p.compileOnce(ctx)
		return err
	})
}
