package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maumlog/maumlog-backend/internal/requestdata"
	"github.com/maumlog/maumlog-backend/internal/services"
)

type AnswerHandler struct {
	answerService services.AnswerService
}

func NewAnswerHandler(answerService services.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

func (h *AnswerHandler) Submit(c *gin.Context) {
	var req struct {
		QuestionID uuid.UUID `json:"question_id"`
		Text       string    `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID := requestdata.UserID(c.Request.Context())
	result, err := h.answerService.SubmitAnswer(c.Request.Context(), userID, req.QuestionID, req.Text)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *AnswerHandler) List(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	answers, err := h.answerService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"answers": answers})
}
