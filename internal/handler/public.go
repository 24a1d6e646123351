package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"livingdocs/internal/httputil"
	"livingdocs/internal/metrics"
	"livingdocs/internal/service"
)

// PublicHandler serves the unauthenticated capability-URL endpoints
type PublicHandler struct {
	public *service.PublicService
	logger *slog.Logger
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(public *service.PublicService, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{public: public, logger: logger}
}

// Download serves the current version behind a public token. The same
// URL keeps working across version uploads, rollbacks and availability
// flips; only the bytes behind it change.
// GET /api/public/{token}
func (h *PublicHandler) Download(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	resolved, notModified, err := h.public.Resolve(r.Context(), token, r.Header.Get("If-None-Match"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.Header().Set("ETag", resolved.ETag)
	if notModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	metrics.PublicDownloadsTotal.Inc()

	w.Header().Set("Content-Type", resolved.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", resolved.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(resolved.Data)))
	w.Write(resolved.Data)
}

// CheckUpdate tells a previously downloaded copy whether a newer version
// exists.
// GET /api/public/{token}/check-update?version=1.0
func (h *PublicHandler) CheckUpdate(w http.ResponseWriter, r *http.Request) {
	status, err := h.public.CheckUpdate(r.Context(), r.PathValue("token"), r.URL.Query().Get("version"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, status)
}
