package di

import (
	"context"
	"fmt"

	"cortex/application/commands"
	"cortex/application/commands/bus"
	commandhandlers "cortex/application/commands/handlers"
	"cortex/application/ports"
	"cortex/application/queries"
	querybus "cortex/application/queries/bus"
	queryhandlers "cortex/application/queries/handlers"
	appservices "cortex/application/services"
	domainconfig "cortex/domain/config"
	domainservices "cortex/domain/services"
	"cortex/infrastructure/config"
	"cortex/infrastructure/messaging/eventbridge"
	"cortex/infrastructure/persistence/dynamodb"
	"cortex/infrastructure/persistence/memory"
	"cortex/pkg/auth"
	"cortex/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// insightCacheTTLSeconds bounds how stale a cached insight result can be
const insightCacheTTLSeconds = 30

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideDomainConfig creates the analysis tuning parameters
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

// ProvideNoteRepository creates a note repository
func ProvideNoteRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.NoteRepository {
	return dynamodb.NewNoteRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideEmbeddingRepository creates an embedding repository
func ProvideEmbeddingRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.EmbeddingRepository {
	return dynamodb.NewEmbeddingRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideConceptRepository creates a concept repository
func ProvideConceptRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ConceptRepository {
	return dynamodb.NewConceptRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideInsightRepository creates the analysis report store
func ProvideInsightRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) appservices.InsightRepository {
	return dynamodb.NewInsightRepository(client, cfg.DynamoDBTable, logger)
}

// ProvidePositionSource creates the canvas event source. Position events are
// accumulated in memory for now; detectors fall back to the notes' stored
// positions when the source is empty.
func ProvidePositionSource() ports.PositionSource {
	return memory.NewPositionSource()
}

// ProvideEventBus creates an event bus
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates metrics instance
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("Cortex/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideTracer creates the X-Ray tracer, or nil when tracing is disabled
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("cortex")
}

// ProvideRateLimiter creates a per-IP rate limiter for the HTTP layer
func ProvideRateLimiter(cfg *config.Config) *auth.IPRateLimiter {
	return auth.NewIPRateLimiter(cfg.RequestsPerMinute)
}

// ProvideJWTValidator creates the JWT validator used by the auth middleware
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideTextAnalyzer creates the shared text analyzer
func ProvideTextAnalyzer(cfg *domainconfig.DomainConfig) domainservices.TextAnalyzer {
	return domainservices.NewDefaultTextAnalyzer()
}

// ProvideClaimExtractor creates the claim extractor
func ProvideClaimExtractor() *domainservices.ClaimExtractor {
	return domainservices.NewClaimExtractor()
}

// ProvideDuplicateDetector creates the duplicate detector
func ProvideDuplicateDetector(cfg *domainconfig.DomainConfig) *domainservices.DuplicateDetector {
	return domainservices.NewDuplicateDetector(cfg)
}

// ProvideContradictionDetector creates the contradiction detector
func ProvideContradictionDetector(cfg *domainconfig.DomainConfig, extractor *domainservices.ClaimExtractor, analyzer domainservices.TextAnalyzer) *domainservices.ContradictionDetector {
	return domainservices.NewContradictionDetector(cfg, extractor, analyzer)
}

// ProvideMergeCandidateDetector creates the merge candidate detector
func ProvideMergeCandidateDetector(cfg *domainconfig.DomainConfig, analyzer domainservices.TextAnalyzer) *domainservices.MergeCandidateDetector {
	return domainservices.NewMergeCandidateDetector(cfg, analyzer)
}

// ProvideSpatialClusterDetector creates the spatial cluster detector
func ProvideSpatialClusterDetector(cfg *domainconfig.DomainConfig) *domainservices.SpatialClusterDetector {
	return domainservices.NewSpatialClusterDetector(cfg)
}

// ProvideConceptClusterDetector creates the concept cluster detector
func ProvideConceptClusterDetector(cfg *domainconfig.DomainConfig) *domainservices.ConceptClusterDetector {
	return domainservices.NewConceptClusterDetector(cfg)
}

// ProvideInsightService creates the analysis orchestration service
func ProvideInsightService(
	noteRepo ports.NoteRepository,
	embeddingRepo ports.EmbeddingRepository,
	conceptRepo ports.ConceptRepository,
	positions ports.PositionSource,
	reports appservices.InsightRepository,
	duplicates *domainservices.DuplicateDetector,
	contradictions *domainservices.ContradictionDetector,
	merges *domainservices.MergeCandidateDetector,
	spatial *domainservices.SpatialClusterDetector,
	concepts *domainservices.ConceptClusterDetector,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *appservices.InsightService {
	return appservices.NewInsightService(
		noteRepo,
		embeddingRepo,
		conceptRepo,
		positions,
		reports,
		duplicates,
		contradictions,
		merges,
		spatial,
		concepts,
		eventBus,
		metrics,
		logger,
	)
}

// ProvideInsightQueryHandler creates the read-side insight handler
func ProvideInsightQueryHandler(
	noteRepo ports.NoteRepository,
	embeddingRepo ports.EmbeddingRepository,
	conceptRepo ports.ConceptRepository,
	positions ports.PositionSource,
	duplicates *domainservices.DuplicateDetector,
	contradictions *domainservices.ContradictionDetector,
	merges *domainservices.MergeCandidateDetector,
	spatial *domainservices.SpatialClusterDetector,
	concepts *domainservices.ConceptClusterDetector,
	logger *zap.Logger,
) *queryhandlers.InsightQueryHandler {
	return queryhandlers.NewInsightQueryHandler(
		noteRepo,
		embeddingRepo,
		conceptRepo,
		positions,
		duplicates,
		contradictions,
		merges,
		spatial,
		concepts,
		logger,
	)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	noteRepo ports.NoteRepository,
	embeddingRepo ports.EmbeddingRepository,
	eventBus ports.EventBus,
	insights *appservices.InsightService,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()

	createHandler := commands.NewCreateNoteHandler(noteRepo, eventBus, logger)
	if err := commandBus.Register(commands.CreateNoteCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			createCmd, ok := cmd.(commands.CreateNoteCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := createHandler.Handle(ctx, createCmd)
			return err
		},
	}); err != nil {
		return nil, err
	}

	updateHandler := commandhandlers.NewUpdateNoteHandler(noteRepo, eventBus, logger)
	if err := commandBus.Register(commands.UpdateNoteCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			updateCmd, ok := cmd.(commands.UpdateNoteCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return updateHandler.Handle(ctx, updateCmd)
		},
	}); err != nil {
		return nil, err
	}

	deleteHandler := commandhandlers.NewDeleteNoteHandler(noteRepo, embeddingRepo, eventBus, logger)
	if err := commandBus.Register(commands.DeleteNoteCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			deleteCmd, ok := cmd.(commands.DeleteNoteCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return deleteHandler.Handle(ctx, deleteCmd)
		},
	}); err != nil {
		return nil, err
	}

	embeddingHandler := commandhandlers.NewRecordEmbeddingHandler(noteRepo, embeddingRepo, eventBus, logger)
	if err := commandBus.Register(commands.RecordEmbeddingCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			embedCmd, ok := cmd.(commands.RecordEmbeddingCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return embeddingHandler.Handle(ctx, embedCmd)
		},
	}); err != nil {
		return nil, err
	}

	analysisHandler := commandhandlers.NewRunAnalysisHandler(insights, tracer, logger)
	if err := commandBus.Register(commands.RunAnalysisCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			runCmd, ok := cmd.(commands.RunAnalysisCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			_, err := analysisHandler.Handle(ctx, runCmd)
			return err
		},
	}); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	noteRepo ports.NoteRepository,
	insightHandler *queryhandlers.InsightQueryHandler,
	insightRepo appservices.InsightRepository,
	domainCfg *domainconfig.DomainConfig,
	cache ports.Cache,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	// Insight queries rerun a detector per request; cache them briefly so a
	// dashboard polling all five endpoints does not recompute per call
	cached := querybus.NewCachingMiddleware(cache, insightCacheTTLSeconds)

	getNoteHandler := queryhandlers.NewGetNoteHandler(noteRepo, logger)
	if err := queryBus.Register(queries.GetNoteQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			getQuery, ok := query.(queries.GetNoteQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getNoteHandler.Handle(ctx, getQuery)
		},
	}); err != nil {
		return nil, err
	}

	listNotesHandler := queryhandlers.NewListNotesHandler(noteRepo, domainCfg, logger)
	if err := queryBus.Register(queries.ListNotesQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListNotesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return listNotesHandler.Handle(ctx, listQuery)
		},
	}); err != nil {
		return nil, err
	}

	if err := queryBus.Register(queries.DetectDuplicatesQuery{}, cached.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			dupQuery, ok := query.(queries.DetectDuplicatesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return insightHandler.HandleDetectDuplicates(ctx, dupQuery)
		},
	})); err != nil {
		return nil, err
	}

	if err := queryBus.Register(queries.DetectContradictionsQuery{}, cached.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			conQuery, ok := query.(queries.DetectContradictionsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return insightHandler.HandleDetectContradictions(ctx, conQuery)
		},
	})); err != nil {
		return nil, err
	}

	if err := queryBus.Register(queries.FindMergeCandidatesQuery{}, cached.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			mergeQuery, ok := query.(queries.FindMergeCandidatesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return insightHandler.HandleFindMergeCandidates(ctx, mergeQuery)
		},
	})); err != nil {
		return nil, err
	}

	if err := queryBus.Register(queries.GetActivityRegionsQuery{}, cached.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			regionQuery, ok := query.(queries.GetActivityRegionsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return insightHandler.HandleGetActivityRegions(ctx, regionQuery)
		},
	})); err != nil {
		return nil, err
	}

	if err := queryBus.Register(queries.GetConceptClustersQuery{}, cached.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			clusterQuery, ok := query.(queries.GetConceptClustersQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return insightHandler.HandleGetConceptClusters(ctx, clusterQuery)
		},
	})); err != nil {
		return nil, err
	}

	reportHandler := queryhandlers.NewGetReportHandler(insightRepo, logger)
	if err := queryBus.Register(queries.GetAnalysisReportQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			reportQuery, ok := query.(queries.GetAnalysisReportQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return reportHandler.Handle(ctx, reportQuery)
		},
	}); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideInMemoryCache creates a simple in-memory cache
// In production, this would be Redis or similar
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}
