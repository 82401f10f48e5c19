package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error:   code,
		Message: message,
	})
}

// respondDomainError maps service errors onto HTTP statuses. Anything not
// recognised is logged and reported as an internal error.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound), errors.Is(err, domain.ErrChecklistItemNotFound):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrDocumentExists):
		respondError(c, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, domain.ErrInvalidDocument):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrEvaluationInProgress):
		respondError(c, http.StatusConflict, "evaluation_in_progress", err.Error())
	case errors.Is(err, domain.ErrRecordSourceUnavailable):
		respondError(c, http.StatusServiceUnavailable, "source_unavailable", err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
