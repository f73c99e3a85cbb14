//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"astroview/internal"
	"astroview/internal/controllers"
	"astroview/internal/maprender"
	"astroview/internal/providers"
	"astroview/internal/refresh"
	"astroview/internal/services"
	"astroview/internal/structures"
	"astroview/internal/submit"
	"astroview/internal/view"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		services.NewSiteService,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		refresh.NewChangeDetector,
		refresh.NewFeedFetcher,
		refresh.NewZstdCompressor,
		refresh.NewFileManager,
		maprender.NewMemoryRenderer,
		view.NewController,
		internal.NewMarkerManager,
		refresh.NewScheduler,

		submit.NewIssueClient,
		submit.NewPipeline,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
