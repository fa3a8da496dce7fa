//go:build wireinject
// +build wireinject

package di

import (
	"github.com/Rono40230/Analyses-historiques/pkg/config"
	"github.com/Rono40230/Analyses-historiques/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Stores
		ProvideSQLiteDB,
		ProvideCandleLoader,
		ProvideEventSource,
		ProvideResultCache,

		// Use cases
		ProvideCandleIndex,
		ProvideVolatilityCalculator,
		ProvideEventImpactCorrelator,
		ProvideRetrospectiveAnalyzer,
		ProvideStraddleUseCase,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
