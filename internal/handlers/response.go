package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondAppError maps a pipeline error kind to its HTTP status and stable
// error code.
func RespondAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotYetAnalyzed):
		RespondError(c, http.StatusNotFound, "not_yet_analyzed", err)
	case errors.Is(err, apperr.ErrInsufficientAnswers):
		RespondError(c, http.StatusConflict, "insufficient_answers", err)
	case errors.Is(err, apperr.ErrMissingQuestion), errors.Is(err, apperr.ErrMissingAnswer):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperr.ErrInvalidDemographic):
		RespondError(c, http.StatusBadRequest, "invalid_demographic", err)
	case errors.Is(err, apperr.ErrUnknownCategory):
		RespondError(c, http.StatusInternalServerError, "unknown_category", err)
	case errors.Is(err, apperr.ErrInventoryShape), errors.Is(err, apperr.ErrSchemaValidation):
		RespondError(c, http.StatusBadGateway, "model_output_invalid", err)
	case errors.Is(err, apperr.ErrContentFiltered):
		RespondError(c, http.StatusBadGateway, "content_filtered", err)
	case errors.Is(err, apperr.ErrRateLimited):
		RespondError(c, http.StatusTooManyRequests, "rate_limited", err)
	case errors.Is(err, apperr.ErrModelUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "model_unavailable", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
