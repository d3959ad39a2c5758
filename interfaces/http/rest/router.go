package rest

import (
	"net/http"

	"cortex/application/commands/bus"
	querybus "cortex/application/queries/bus"
	"cortex/interfaces/http/rest/handlers"
	"cortex/interfaces/http/rest/middleware"
	"cortex/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	jwtValidator *auth.JWTValidator
	rateLimiter  *auth.IPRateLimiter
	logger       *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	jwtValidator *auth.JWTValidator,
	rateLimiter *auth.IPRateLimiter,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:   commandBus,
		queryBus:     queryBus,
		jwtValidator: jwtValidator,
		rateLimiter:  rateLimiter,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://*.cortex.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.jwtValidator, rt.rateLimiter, rt.logger))

		// Note endpoints
		r.Route("/notes", func(r chi.Router) {
			noteHandler := handlers.NewNoteHandler(rt.commandBus, rt.queryBus, rt.logger)
			r.Post("/", noteHandler.CreateNote)
			r.Get("/", noteHandler.ListNotes)
			r.Get("/{noteID}", noteHandler.GetNote)
			r.Put("/{noteID}", noteHandler.UpdateNote)
			r.Delete("/{noteID}", noteHandler.DeleteNote)
			r.Put("/{noteID}/embedding", noteHandler.RecordEmbedding)
		})

		// Insight endpoints
		insightHandler := handlers.NewInsightHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Post("/analysis", insightHandler.RunAnalysis)
		r.Route("/insights", func(r chi.Router) {
			r.Get("/report", insightHandler.GetReport)
			r.Get("/duplicates", insightHandler.GetDuplicates)
			r.Get("/contradictions", insightHandler.GetContradictions)
			r.Get("/merge-candidates", insightHandler.GetMergeCandidates)
			r.Get("/activity-regions", insightHandler.GetActivityRegions)
			r.Get("/concept-clusters", insightHandler.GetConceptClusters)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
