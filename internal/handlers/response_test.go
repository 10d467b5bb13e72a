package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
)

func TestRespondAppErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{apperr.ErrNotYetAnalyzed, http.StatusNotFound, "not_yet_analyzed"},
		{apperr.ErrInsufficientAnswers, http.StatusConflict, "insufficient_answers"},
		{apperr.ErrMissingQuestion, http.StatusNotFound, "not_found"},
		{apperr.ErrMissingAnswer, http.StatusNotFound, "not_found"},
		{apperr.ErrInvalidDemographic, http.StatusBadRequest, "invalid_demographic"},
		{apperr.ErrUnknownCategory, http.StatusInternalServerError, "unknown_category"},
		{apperr.ErrInventoryShape, http.StatusBadGateway, "model_output_invalid"},
		{apperr.ErrSchemaValidation, http.StatusBadGateway, "model_output_invalid"},
		{apperr.ErrContentFiltered, http.StatusBadGateway, "content_filtered"},
		{apperr.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{apperr.ErrModelUnavailable, http.StatusServiceUnavailable, "model_unavailable"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.wantCode, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			// Wrapped errors must map the same way as bare sentinels.
			RespondAppError(c, fmt.Errorf("context: %w", tc.err))

			if w.Code != tc.wantStatus {
				t.Fatalf("status %d, want %d", w.Code, tc.wantStatus)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code %q, want %q", envelope.Error.Code, tc.wantCode)
			}
		})
	}
}
