// Package main provides the snapshot inspection tool.
//
// snapshot operates on persisted collection runs:
//
//	snapshot list                     # list runs, newest first
//	snapshot show <run-id>            # show one run's ledger entry
//	snapshot outcomes <run-id>        # per-app outcomes (-status to filter)
//	snapshot export <run-id>          # write the cleaned CSV for a run
//	snapshot search [flags]           # query the snapshot index
//	snapshot reindex                  # rebuild the index from snapshots
//	snapshot delete <run-id>          # remove a run and its artifacts
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/samber/do/v2"

	"github.com/gamescope/gamescope-collector/internal/config"
	"github.com/gamescope/gamescope-collector/internal/di"
	"github.com/gamescope/gamescope-collector/internal/di/providers"
	"github.com/gamescope/gamescope-collector/internal/dto"
	"github.com/gamescope/gamescope-collector/internal/logger"
	"github.com/gamescope/gamescope-collector/internal/sampler"
	"github.com/gamescope/gamescope-collector/internal/service"
	"github.com/gamescope/gamescope-collector/internal/validation"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "list", "show", "outcomes", "export", "search", "reindex", "delete":
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		usage()
		os.Exit(2)
	}

	fs := flag.NewFlagSet("snapshot "+command, flag.ContinueOnError)
	var (
		status = fs.String("status", "", "Filter outcomes by status (accepted, rejected, skipped)")

		query     = fs.String("q", "", "Search query text")
		runID     = fs.String("run", "", "Restrict search to one run")
		genres    = fs.String("genres", "", "Comma-separated genre filters")
		mainGenre = fs.String("main-genre", "", "Filter by main genre")
		free      = fs.String("free", "", "Filter by price model (true or false)")
		minYear   = fs.Int("min-year", 0, "Minimum release year")
		maxYear   = fs.Int("max-year", 0, "Maximum release year")
		minOwners = fs.Int64("min-owners", 0, "Minimum owners proxy")
		limit     = fs.Int("limit", 0, "Maximum results")
		sortBy    = fs.String("sort", "", "Sort field (relevance, name, owners, reviews, year, recent)")
		sortOrder = fs.String("order", "", "Sort order (asc, desc)")
	)

	cfg, err := config.LoadConfigFlagSet(fs, args)
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
	defer closeHandles(injector, log)

	ctx := context.Background()

	switch command {
	case "list":
		err = listRuns(ctx, runs)
	case "show":
		err = withRunID(fs, func(id string) error { return showRun(ctx, runs, id) })
	case "outcomes":
		err = withRunID(fs, func(id string) error { return showOutcomes(ctx, runs, id, *status) })
	case "export":
		err = withRunID(fs, func(id string) error { return exportRun(ctx, runs, id) })
	case "search":
		req := &dto.SearchRequest{
			Query:     *query,
			RunID:     *runID,
			MainGenre: *mainGenre,
			MinYear:   *minYear,
			MaxYear:   *maxYear,
			MinOwners: *minOwners,
			Limit:     *limit,
			SortBy:    *sortBy,
			SortOrder: *sortOrder,
		}
		if *genres != "" {
			req.Genres = strings.Split(*genres, ",")
		}
		if *free != "" {
			v := *free == "true"
			req.Free = &v
		}
		err = searchSnapshots(ctx, runs, do.MustInvoke[*validation.Validator](injector), req)
	case "reindex":
		err = runs.Reindex(ctx)
		if err == nil {
			fmt.Println("Reindex complete.")
		}
	case "delete":
		err = withRunID(fs, func(id string) error { return deleteRun(ctx, runs, id) })
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		closeHandles(injector, log)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: snapshot <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  list                 List runs, newest first")
	fmt.Fprintln(os.Stderr, "  show <run-id>        Show one run's ledger entry")
	fmt.Fprintln(os.Stderr, "  outcomes <run-id>    Show per-app outcomes (-status to filter)")
	fmt.Fprintln(os.Stderr, "  export <run-id>      Write the cleaned CSV for a run")
	fmt.Fprintln(os.Stderr, "  search [flags]       Query the snapshot index (-q, -run, -genres, ...)")
	fmt.Fprintln(os.Stderr, "  reindex              Rebuild the index from stored snapshots")
	fmt.Fprintln(os.Stderr, "  delete <run-id>      Remove a run and its artifacts")
}

// withRunID runs fn with the positional run ID left after flag parsing.
func withRunID(fs *flag.FlagSet, fn func(string) error) error {
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one run id argument")
	}
	return fn(fs.Arg(0))
}

func listRuns(ctx context.Context, runs *service.RunService) error {
	all, err := runs.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	fmt.Printf("%-28s  %-22s  %-6s  %-6s  %8s  %8s\n",
		"RUN", "CREATED", "KIND", "MODE", "EXAMINED", "SELECTED")
	for _, run := range all {
		fmt.Printf("%-28s  %-22s  %-6s  %-6s  %8d  %8d\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Kind, run.Mode, run.Examined, run.Selected)
	}
	return nil
}

func showRun(ctx context.Context, runs *service.RunService, id string) error {
	run, err := runs.GetRun(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Run:            %s\n", run.ID)
	fmt.Printf("Created:        %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Kind:           %s\n", run.Kind)
	fmt.Printf("Mode:           %s\n", run.Mode)
	fmt.Printf("Target:         %d\n", run.TargetN)
	fmt.Printf("Max candidates: %s\n", formatCandidates(run.MaxCandidates))
	if run.MinYear != nil {
		fmt.Printf("Min year:       %d\n", *run.MinYear)
	}
	if run.Genre != nil {
		fmt.Printf("Genre:          %s\n", *run.Genre)
	}
	if run.FreeOnly != nil {
		fmt.Printf("Free only:      %t\n", *run.FreeOnly)
	}
	fmt.Printf("Examined:       %d\n", run.Examined)
	fmt.Printf("Selected:       %d\n", run.Selected)
	fmt.Printf("Snapshot:       %s\n", run.SnapshotPath)
	return nil
}

func formatCandidates(n int) string {
	if n < 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", n)
}

func showOutcomes(ctx context.Context, runs *service.RunService, id, status string) error {
	items, err := runs.Outcomes(ctx, id, status)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No outcomes.")
		return nil
	}
	counts := map[string]int{}
	for _, item := range items {
		counts[item.Status]++
		if item.Reason != "" {
			fmt.Printf("%10d  %-8s  %s\n", item.AppID, item.Status, item.Reason)
		} else {
			fmt.Printf("%10d  %-8s\n", item.AppID, item.Status)
		}
	}
	fmt.Printf("\n%d outcomes", len(items))
	for _, s := range []string{sampler.StatusAccepted, sampler.StatusRejected, sampler.StatusSkipped} {
		if counts[s] > 0 {
			fmt.Printf(", %d %s", counts[s], s)
		}
	}
	fmt.Println()
	return nil
}

func exportRun(ctx context.Context, runs *service.RunService, id string) error {
	path, err := runs.ExportCSV(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %s\n", path)
	return nil
}

func searchSnapshots(ctx context.Context, runs *service.RunService, v *validation.Validator, req *dto.SearchRequest) error {
	if err := v.Validate(req); err != nil {
		return err
	}

	res, err := runs.Search(ctx, req.ToParams())
	if err != nil {
		return err
	}

	fmt.Printf("%d hits (%d ms)\n", res.Total, res.TookMs)
	for _, hit := range res.Hits {
		fmt.Printf("%10d  %-40s", hit.AppID, hit.Name)
		if hit.MainGenre != "" {
			fmt.Printf("  %-16s", hit.MainGenre)
		}
		if hit.ReleaseYear > 0 {
			fmt.Printf("  %d", hit.ReleaseYear)
		}
		fmt.Println()
	}
	if len(res.Facets.Genres) > 0 {
		fmt.Println("\nGenres:")
		for _, fc := range res.Facets.Genres {
			fmt.Printf("  %-24s %d\n", fc.Value, fc.Count)
		}
	}
	return nil
}

func deleteRun(ctx context.Context, runs *service.RunService, id string) error {
	if err := runs.DeleteRun(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", id)
	return nil
}

func closeHandles(injector *do.RootScope, log *logger.Logger) {
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
