package handler

import (
	"log/slog"
	"net/http"

	"livingdocs/internal/domain/models"
	"livingdocs/internal/httputil"
	"livingdocs/internal/service"
)

// TreeHandler serves the combined folder/document tree
type TreeHandler struct {
	tree   *service.TreeService
	logger *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(tree *service.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{tree: tree, logger: logger}
}

// Get returns the caller's tree rooted at the top level
// GET /api/tree
func (h *TreeHandler) Get(w http.ResponseWriter, r *http.Request) {
	roots, err := h.tree.Build(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if roots == nil {
		// Marshal an empty array, never null
		roots = []*models.TreeNode{}
	}
	httputil.RespondJSON(w, http.StatusOK, roots)
}
