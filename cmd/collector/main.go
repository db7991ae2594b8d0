// Package main provides the interactive front end for filtered sampling runs.
//
// The collector prompts for a sampling configuration tuple, runs the
// filtered sample against the live catalog, and persists the snapshot,
// ledger entry, and search documents:
//
//	(target_n, min_year, price_flag, sample_mode_flag, genre[, max_candidates])
//
// Example: (500, 2015, 2, 1, "Indie", 0)
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/gamescope/gamescope-collector/internal/config"
	"github.com/gamescope/gamescope-collector/internal/di"
	"github.com/gamescope/gamescope-collector/internal/di/providers"
	"github.com/gamescope/gamescope-collector/internal/logger"
	"github.com/gamescope/gamescope-collector/internal/prompt"
	"github.com/gamescope/gamescope-collector/internal/sampler"
	"github.com/gamescope/gamescope-collector/internal/service"
)

func main() {
	cfg, err := config.LoadConfig("collector", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	injector := di.NewContainer(cfg)
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap collector: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	runs := do.MustInvoke[*service.RunService](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runLoop(ctx, runs, cfg.Sampling.DefaultTargetN)

	log.Info("Shutting down...")
	shutdown(injector, log)
}

func runLoop(ctx context.Context, runs *service.RunService, defaultTargetN int) {
	fmt.Println("Enter a sampling config tuple, e.g. (500, 2015, 2, 1, \"Indie\", 0).")
	fmt.Println("Elements: target_n, min_year, price_flag, sample_mode_flag, genre[, max_candidates].")
	fmt.Println("Type 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit" || line == "q":
			return
		}

		elements, err := prompt.ParseTuple(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
			continue
		}

		summary, err := runs.RunSample(ctx, sampler.RawConfig(elements), defaultTargetN)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
			continue
		}

		fmt.Printf("Run %s finished: %d selected of %d examined.\n",
			summary.RunID, summary.Selected, summary.Examined)
		fmt.Printf("Snapshot: %s\n", summary.SnapshotPath)
	}
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
