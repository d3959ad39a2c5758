package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cortex/application/queries"
	"cortex/application/services"
)

// GetReportHandler serves the stored report of the last analysis pass.
// Unlike the other insight handlers it reads, never computes.
type GetReportHandler struct {
	reports services.InsightRepository
	logger  *zap.Logger
}

// NewGetReportHandler creates a get report handler
func NewGetReportHandler(reports services.InsightRepository, logger *zap.Logger) *GetReportHandler {
	return &GetReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// Handle retrieves the latest analysis report for the user
func (h *GetReportHandler) Handle(ctx context.Context, query queries.GetAnalysisReportQuery) (*services.AnalysisReport, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	report, err := h.reports.GetLatestReport(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis report: %w", err)
	}

	return report, nil
}
