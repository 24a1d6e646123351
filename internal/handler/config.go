package handler

import (
	"net/http"

	"livingdocs/internal/config"
	"livingdocs/internal/httputil"
)

// ConfigHandler exposes the non-secret settings UI clients need
type ConfigHandler struct {
	cfg *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// Get returns public configuration
// GET /api/config
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"base_url":         h.cfg.BaseURL,
		"retention_days":   h.cfg.RetentionDays,
		"max_upload_bytes": config.MaxUploadBytes,
	})
}

// HealthCheck reports liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
