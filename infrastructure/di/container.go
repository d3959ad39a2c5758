package di

import (
	"cortex/application/commands/bus"
	"cortex/application/ports"
	querybus "cortex/application/queries/bus"
	appservices "cortex/application/services"
	"cortex/infrastructure/config"
	"cortex/pkg/auth"
	"cortex/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	NoteRepo       ports.NoteRepository
	EmbeddingRepo  ports.EmbeddingRepository
	ConceptRepo    ports.ConceptRepository
	InsightRepo    appservices.InsightRepository
	PositionSource ports.PositionSource
	EventBus       ports.EventBus
	InsightService *appservices.InsightService
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	Cache          ports.Cache
	Metrics        *observability.Metrics
	RateLimiter    *auth.IPRateLimiter
	JWTValidator   *auth.JWTValidator
}
