// Package providers contains dependency injection providers for the collector.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/gamescope/gamescope-collector/internal/config"
	"github.com/gamescope/gamescope-collector/internal/export"
	"github.com/gamescope/gamescope-collector/internal/logger"
	"github.com/gamescope/gamescope-collector/internal/sampler"
	"github.com/gamescope/gamescope-collector/internal/search"
	"github.com/gamescope/gamescope-collector/internal/service"
	"github.com/gamescope/gamescope-collector/internal/steam"
	"github.com/gamescope/gamescope-collector/internal/steamspy"
	"github.com/gamescope/gamescope-collector/internal/store"
	"github.com/gamescope/gamescope-collector/internal/validation"
)

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Debug("Configuration loaded",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"steamspy_enabled", cfg.SteamSpy.Enabled,
	)

	return log, nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSteamClient provides the rate-limited Steam API client. It serves
// as the catalog, detail, and review source for the collector.
func ProvideSteamClient(i do.Injector) (*steam.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return steam.New(steam.Config{
		APIKey:        cfg.Steam.APIKey,
		WebAPIBaseURL: cfg.Steam.WebAPIBaseURL,
		StoreBaseURL:  cfg.Steam.StoreBaseURL,
	}, log.Logger), nil
}

// OwnersSource wraps the optional ownership-proxy client. A nil Client means
// the source is disabled and records carry no owners figure.
type OwnersSource struct {
	Client *steamspy.Client
}

// ProvideOwnersSource provides the SteamSpy ownership-proxy source.
func ProvideOwnersSource(i do.Injector) (*OwnersSource, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.SteamSpy.Enabled {
		log.Info("SteamSpy source disabled, owners proxy will be empty")
		return &OwnersSource{}, nil
	}

	return &OwnersSource{Client: steamspy.NewClient(cfg.SteamSpy.BaseURL, log.Logger)}, nil
}

// ProvideSnapshotStore provides the on-disk snapshot store.
func ProvideSnapshotStore(i do.Injector) (*export.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return export.NewStore(cfg.SnapshotDir())
}

// RunStoreHandle wraps the run ledger with shutdown capability.
type RunStoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *RunStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideRunStore provides the run ledger database.
func ProvideRunStore(i do.Injector) (*RunStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.Open(cfg.DatabasePath(), log)
	if err != nil {
		return nil, err
	}

	log.Info("Run ledger initialized", "path", cfg.DatabasePath())

	return &RunStoreHandle{Store: db}, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.GameIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewGameIndex(search.Options{
		DataPath: cfg.IndexDir(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{GameIndex: index}, nil
}

// ProvideCollector provides the sampling collector backed by the live sources.
func ProvideCollector(i do.Injector) (*sampler.Collector, error) {
	client := do.MustInvoke[*steam.Client](i)
	owners := do.MustInvoke[*OwnersSource](i)
	log := do.MustInvoke[*logger.Logger](i)

	var ownersFetcher sampler.OwnersFetcher
	if owners.Client != nil {
		ownersFetcher = owners.Client
	}

	return sampler.NewCollector(client, client, client, ownersFetcher, log), nil
}

// ProvideRunService provides the run orchestration service.
func ProvideRunService(i do.Injector) (*service.RunService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	collector := do.MustInvoke[*sampler.Collector](i)
	snapshots := do.MustInvoke[*export.Store](i)
	ledger := do.MustInvoke[*RunStoreHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRunService(collector, snapshots, ledger.Store, index.GameIndex, cfg.ExportDir(), log), nil
}
