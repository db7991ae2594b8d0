// Package di provides dependency injection configuration for the collector.
package di

import (
	"github.com/samber/do/v2"

	"github.com/gamescope/gamescope-collector/internal/config"
	"github.com/gamescope/gamescope-collector/internal/di/providers"
	"github.com/gamescope/gamescope-collector/internal/logger"
	"github.com/gamescope/gamescope-collector/internal/sampler"
	"github.com/gamescope/gamescope-collector/internal/service"
	"github.com/gamescope/gamescope-collector/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
// The configuration is loaded by the caller so each binary can parse its
// own flags before wiring.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Source clients
	do.Provide(injector, providers.ProvideSteamClient)
	do.Provide(injector, providers.ProvideOwnersSource)

	// Storage layer
	do.Provide(injector, providers.ProvideSnapshotStore)
	do.Provide(injector, providers.ProvideRunStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Collection
	do.Provide(injector, providers.ProvideCollector)
	do.Provide(injector, providers.ProvideRunService)

	return injector
}

// Bootstrap triggers lazy initialization of all core services so failures
// surface at startup rather than on first use.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*validation.Validator](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.RunStoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*sampler.Collector](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.RunService](injector); err != nil {
		return err
	}
	return nil
}
