package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cortex/application/commands"
	"cortex/application/services"
	"cortex/pkg/observability"
)

// RunAnalysisHandler triggers a full analysis pass for a user
type RunAnalysisHandler struct {
	insights *services.InsightService
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewRunAnalysisHandler creates a new run analysis handler. The tracer is
// optional; pass nil outside traced environments.
func NewRunAnalysisHandler(insights *services.InsightService, tracer *observability.Tracer, logger *zap.Logger) *RunAnalysisHandler {
	return &RunAnalysisHandler{
		insights: insights,
		tracer:   tracer,
		logger:   logger,
	}
}

// Handle executes the run analysis command
func (h *RunAnalysisHandler) Handle(ctx context.Context, cmd commands.RunAnalysisCommand) (*services.AnalysisReport, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	var report *services.AnalysisReport
	run := func(ctx context.Context) error {
		var err error
		report, err = h.insights.RunAnalysis(ctx, cmd.UserID)
		return err
	}

	var err error
	if h.tracer != nil {
		h.tracer.AddAnnotation(ctx, "userID", cmd.UserID)
		err = h.tracer.TraceFunction(ctx, "RunAnalysis", run)
	} else {
		err = run(ctx)
	}

	if err != nil {
		h.logger.Error("analysis pass failed",
			zap.String("userID", cmd.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	return report, nil
}
