package handlers

import (
	"net/http"
	"strings"

	"cortex/application/commands"
	"cortex/application/commands/bus"
	"cortex/application/queries"
	querybus "cortex/application/queries/bus"
	"cortex/pkg/auth"
	"cortex/pkg/common"

	"go.uber.org/zap"
)

// InsightHandler handles analysis and insight HTTP requests
type InsightHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *InsightHandler {
	return &InsightHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// RunAnalysis handles POST /analysis. The full pass runs synchronously;
// findings land in the insight endpoints and on the event bus.
func (h *InsightHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.RunAnalysisCommand{UserID: userCtx.UserID}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Error("Analysis run failed",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "completed",
	})
}

// GetDuplicates handles GET /insights/duplicates
func (h *InsightHandler) GetDuplicates(w http.ResponseWriter, r *http.Request) {
	h.askInsight(w, r, func(userID string) querybus.Query {
		return queries.DetectDuplicatesQuery{UserID: userID}
	}, "duplicates")
}

// GetContradictions handles GET /insights/contradictions
func (h *InsightHandler) GetContradictions(w http.ResponseWriter, r *http.Request) {
	h.askInsight(w, r, func(userID string) querybus.Query {
		return queries.DetectContradictionsQuery{UserID: userID}
	}, "contradictions")
}

// GetMergeCandidates handles GET /insights/merge-candidates
func (h *InsightHandler) GetMergeCandidates(w http.ResponseWriter, r *http.Request) {
	h.askInsight(w, r, func(userID string) querybus.Query {
		return queries.FindMergeCandidatesQuery{UserID: userID}
	}, "merge_candidates")
}

// GetActivityRegions handles GET /insights/activity-regions
func (h *InsightHandler) GetActivityRegions(w http.ResponseWriter, r *http.Request) {
	h.askInsight(w, r, func(userID string) querybus.Query {
		return queries.GetActivityRegionsQuery{UserID: userID}
	}, "activity_regions")
}

// GetReport handles GET /insights/report. Returns the stored result of the
// last analysis pass without recomputing anything.
func (h *InsightHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.askInsight(w, r, func(userID string) querybus.Query {
		return queries.GetAnalysisReportQuery{UserID: userID}
	}, "report")
}

// GetConceptClusters handles GET /insights/concept-clusters
func (h *InsightHandler) GetConceptClusters(w http.ResponseWriter, r *http.Request) {
	h.askInsight(w, r, func(userID string) querybus.Query {
		return queries.GetConceptClustersQuery{UserID: userID}
	}, "concept_clusters")
}

// askInsight runs an insight query for the authenticated user and wraps the
// result under the given key
func (h *InsightHandler) askInsight(w http.ResponseWriter, r *http.Request, build func(userID string) querybus.Query, key string) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), build(userCtx.UserID))
	if err != nil {
		h.logger.Error("Insight query failed",
			zap.String("insight", key),
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		switch {
		case strings.Contains(err.Error(), "not found"):
			h.respondError(w, http.StatusNotFound, "No "+key+" available")
		case strings.Contains(err.Error(), "invalid"):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "Failed to compute "+key)
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{key: result})
}

// respondJSON writes a JSON response in the standard envelope
func (h *InsightHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	common.RespondJSON(w, status, data)
}

// respondError writes an error response
func (h *InsightHandler) respondError(w http.ResponseWriter, status int, message string) {
	common.RespondError(w, status, http.StatusText(status), message)
}
