package jobs

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/maumlog/maumlog-backend/internal/services"
)

// AnalysisRefreshHandler executes a queued full-analysis refresh for one
// user: inventory inference, classification, commentary, advice.
type AnalysisRefreshHandler struct {
	analysis services.AnalysisService
	valueMap services.ValueMapService
}

func NewAnalysisRefreshHandler(analysis services.AnalysisService, valueMap services.ValueMapService) *AnalysisRefreshHandler {
	return &AnalysisRefreshHandler{analysis: analysis, valueMap: valueMap}
}

func (h *AnalysisRefreshHandler) Type() string { return services.JobTypeAnalysisRefresh }

func (h *AnalysisRefreshHandler) Run(jc *Context) error {
	var payload services.AnalysisRefreshPayload
	if err := jc.DecodePayload(&payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("payload has no user_id")
	}

	if err := h.analysis.RunRefresh(jc.Ctx, payload.UserID); err != nil {
		return err
	}

	// Value-map commentary rides along with the periodic refresh so the map
	// view and the analysis view go stale together. Its failure does not
	// fail the job.
	if err := h.valueMap.RegenerateCommentary(jc.Ctx, payload.UserID); err != nil {
		jc.Log.Warn("Value map commentary refresh failed", "user_id", payload.UserID, "error", err)
	}
	return nil
}
