// Package handler exposes the HTTP surface over the service layer.
// Handlers parse and respond; business logic lives in the services.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"livingdocs/internal/domain"
	"livingdocs/internal/httputil"
)

// handleError maps domain errors to HTTP responses. Gated public
// documents get 410 rather than 404: the resource exists and may return.
// A database row pointing at a blob missing from disk reports as 404 so
// one lost file never turns the endpoint into a 5xx generator.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var serr *domain.StorageError
	if errors.As(err, &serr) {
		if serr.Missing {
			logger.Warn("stored blob missing for referenced version",
				"path", serr.Path,
			)
			httputil.RespondError(w, http.StatusNotFound, "document content not found")
			return
		}
		logger.Error("storage failure",
			"op", serr.Op,
			"path", serr.Path,
			"error", serr.Err,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		httputil.RespondError(w, http.StatusGone, "document temporarily unavailable")
	default:
		logger.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
