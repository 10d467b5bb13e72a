package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maumlog/maumlog-backend/internal/requestdata"
	"github.com/maumlog/maumlog-backend/internal/services"
)

type AnalysisHandler struct {
	analysisService services.AnalysisService
	valueMapService services.ValueMapService
}

func NewAnalysisHandler(analysisService services.AnalysisService, valueMapService services.ValueMapService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		valueMapService: valueMapService,
	}
}

func (h *AnalysisHandler) GetUserType(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	label, err := h.analysisService.GetUserType(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"user_type": label})
}

func (h *AnalysisHandler) GetAxisCommentary(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	axis := strings.ToUpper(strings.TrimSpace(c.Param("axis")))
	switch axis {
	case "N", "E", "O", "A", "C":
	default:
		RespondError(c, http.StatusBadRequest, "invalid_axis", fmt.Errorf("axis must be one of N, E, O, A, C"))
		return
	}
	comment, err := h.analysisService.GetAxisCommentary(c.Request.Context(), userID, axis)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"axis": axis, "commentary": comment})
}

func (h *AnalysisHandler) GetPersonalizedAdvice(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	advice, err := h.analysisService.GetPersonalizedAdvice(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, advice)
}

func (h *AnalysisHandler) RequestRefresh(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	status, err := h.analysisService.RequestRefresh(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": status})
}

func (h *AnalysisHandler) GetValueMap(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	vm, err := h.valueMapService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if vm == nil {
		RespondError(c, http.StatusNotFound, "not_yet_analyzed", fmt.Errorf("no value map yet"))
		return
	}
	RespondOK(c, vm)
}

func (h *AnalysisHandler) GetTopValues(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	values, err := h.valueMapService.TopValues(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"values": values})
}

func (h *AnalysisHandler) GetValueHistory(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	scores, err := h.valueMapService.History(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"scores": scores})
}
