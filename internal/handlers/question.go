package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maumlog/maumlog-backend/internal/requestdata"
	"github.com/maumlog/maumlog-backend/internal/services"
)

type QuestionHandler struct {
	questionService services.QuestionService
}

func NewQuestionHandler(questionService services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (h *QuestionHandler) Generate(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	question, err := h.questionService.Generate(c.Request.Context(), userID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, question)
}

func (h *QuestionHandler) Get(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid question id"))
		return
	}
	question, err := h.questionService.Get(c.Request.Context(), questionID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, question)
}
