//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"cortex/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideDomainConfig,
	ProvideNoteRepository,
	ProvideEmbeddingRepository,
	ProvideConceptRepository,
	ProvideInsightRepository,
	ProvidePositionSource,
	ProvideEventBus,
	ProvideMetrics,
	ProvideTracer,
	ProvideRateLimiter,
	ProvideJWTValidator,
	ProvideTextAnalyzer,
	ProvideClaimExtractor,
	ProvideDuplicateDetector,
	ProvideContradictionDetector,
	ProvideMergeCandidateDetector,
	ProvideSpatialClusterDetector,
	ProvideConceptClusterDetector,
	ProvideInsightService,
	ProvideInsightQueryHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideInMemoryCache,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
