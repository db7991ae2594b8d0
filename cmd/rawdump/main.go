// Package main provides the unfiltered raw collection tool.
//
// rawdump walks the sample frame without any filter criteria and records
// every game it can resolve, with details, review counts, and the owners
// proxy. Useful for building a full raw dataset to clean offline.
//
// Usage:
//
//	rawdump                      # collect the whole sample frame
//	rawdump -limit 1000          # stop after 1000 catalog entries
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/gamescope/gamescope-collector/internal/config"
	"github.com/gamescope/gamescope-collector/internal/di"
	"github.com/gamescope/gamescope-collector/internal/di/providers"
	"github.com/gamescope/gamescope-collector/internal/logger"
	"github.com/gamescope/gamescope-collector/internal/service"
)

func main() {
	fs := flag.NewFlagSet("rawdump", flag.ContinueOnError)
	limit := fs.Int("limit", 0, "Maximum catalog entries to examine (0 = all)")

	cfg, err := config.LoadConfigFlagSet(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	injector := di.NewContainer(cfg)
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	runs := do.MustInvoke[*service.RunService](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := runs.RunRaw(ctx, *limit)
	if err != nil {
		log.Error("Raw collection failed", "error", err)
		shutdown(injector, log)
		os.Exit(1)
	}

	fmt.Printf("Run %s finished: %d records from %d examined.\n",
		summary.RunID, summary.Selected, summary.Examined)
	fmt.Printf("Snapshot: %s\n", summary.SnapshotPath)

	shutdown(injector, log)
}

func shutdown(injector *do.RootScope, log *logger.Logger) {
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
	if h, err := do.Invoke[*providers.RunStoreHandle](injector); err == nil {
		if err := h.Shutdown(); err != nil {
			log.Error("Failed to close run ledger", "error", err)
		}
	}
	if h, err := do.Invoke[*providers.SearchIndexHandle](injector); err == nil {
		if err := h.Shutdown(); err != nil {
			log.Error("Failed to close search index", "error", err)
		}
	}
}
