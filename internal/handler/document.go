package handler

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"livingdocs/internal/config"
	"livingdocs/internal/domain/models"
	"livingdocs/internal/httputil"
	"livingdocs/internal/mimetype"
	"livingdocs/internal/service"
)

// documentResponse augments the model with the rendered public link
type documentResponse struct {
	models.DocumentWithVersions
	PublicURL string `json:"public_url"`
}

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	documents *service.DocumentService
	folders   *service.FolderService
	logger    *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *service.DocumentService, folders *service.FolderService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		folders:   folders,
		logger:    logger,
	}
}

// Create registers a new document from a multipart upload.
// Fields: file (required), name, folder_id, relative_path.
// POST /api/documents
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	data, fileName, err := readUpload(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := &service.CreateDocumentRequest{
		Name:         r.FormValue("name"),
		FileName:     fileName,
		Data:         data,
		RelativePath: r.FormValue("relative_path"),
	}
	if v := r.FormValue("folder_id"); v != "" {
		req.FolderID = &v
	} else if req.RelativePath != "" {
		// A relative path places the document by creating any missing
		// folder segments along the way
		folderID, err := h.folders.EnsureFolderPath(r.Context(), ownerID, path.Dir(req.RelativePath))
		if err != nil {
			handleError(w, h.logger, err)
			return
		}
		req.FolderID = folderID
	}

	doc, err := h.documents.Create(r.Context(), ownerID, req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, h.toResponse(&models.DocumentWithVersions{
		Document: *doc,
		Version:  doc.CurrentLabel(),
		Versions: []string{doc.CurrentLabel()},
	}))
}

// BulkCreate registers one document per uploaded file. Client-supplied
// file names may carry relative paths (directory uploads); each distinct
// path prefix becomes a folder once, shared by every file under it.
// POST /api/documents/bulk
func (h *DocumentHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	ownerID := httputil.GetUserID(r)

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	type bulkResult struct {
		Path     string                      `json:"path"`
		Document *models.DocumentWithVersions `json:"document,omitempty"`
		Error    string                      `json:"error,omitempty"`
	}

	results := make([]bulkResult, 0, len(files))
	for _, fh := range files {
		relPath := strings.TrimPrefix(path.Clean("/"+fh.Filename), "/")
		res := bulkResult{Path: relPath}

		data, err := readPart(fh)
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		folderID, err := h.folders.EnsureFolderPath(r.Context(), ownerID, path.Dir(relPath))
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		doc, err := h.documents.Create(r.Context(), ownerID, &service.CreateDocumentRequest{
			Name:         path.Base(relPath),
			FileName:     path.Base(relPath),
			Data:         data,
			FolderID:     folderID,
			RelativePath: relPath,
		})
		if err != nil {
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		res.Document = &models.DocumentWithVersions{
			Document: *doc,
			Version:  doc.CurrentLabel(),
		}
		results = append(results, res)
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"results": results})
}

// List returns the caller's documents
// GET /api/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.List(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	out := make([]documentResponse, len(docs))
	for i := range docs {
		out[i] = h.toResponse(&docs[i])
	}
	httputil.RespondJSON(w, http.StatusOK, out)
}

// Get returns one document with its version history
// GET /api/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.Get(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, h.toResponse(doc))
}

// Delete removes a document, its versions and its blobs
// DELETE /api/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Delete(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddVersion uploads new content for a document
// POST /api/documents/{id}/versions
func (h *DocumentHandler) AddVersion(w http.ResponseWriter, r *http.Request) {
	data, fileName, err := readUpload(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.documents.AddVersion(r.Context(), httputil.GetUserID(r), r.PathValue("id"), fileName, data)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.toResponse(&models.DocumentWithVersions{
		Document: *doc,
		Version:  doc.CurrentLabel(),
	}))
}

// SetCurrentVersion repoints the current version
// PUT /api/documents/{id}/version
func (h *DocumentHandler) SetCurrentVersion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Version string `json:"version"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.documents.SetCurrentVersion(r.Context(), httputil.GetUserID(r), r.PathValue("id"), req.Version)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.toResponse(&models.DocumentWithVersions{
		Document: *doc,
		Version:  doc.CurrentLabel(),
	}))
}

// SetAvailability gates or ungates the public link
// PUT /api/documents/{id}/availability
func (h *DocumentHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Available bool `json:"available"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.documents.SetAvailability(r.Context(), httputil.GetUserID(r), r.PathValue("id"), req.Available)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.toResponse(&models.DocumentWithVersions{
		Document: *doc,
		Version:  doc.CurrentLabel(),
	}))
}

// Download serves the blob of one version to its owner. An empty or
// absent version query parameter selects the current version.
// GET /api/documents/{id}/download
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("version")
	doc, data, blobPath, err := h.documents.GetContent(r.Context(), httputil.GetUserID(r), r.PathValue("id"), label)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", mimetype.ForPath(blobPath))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}

func (h *DocumentHandler) toResponse(doc *models.DocumentWithVersions) documentResponse {
	return documentResponse{
		DocumentWithVersions: *doc,
		PublicURL:            h.documents.PublicURL(&doc.Document),
	}
}

// readUpload extracts the single "file" part of a multipart upload
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, "", fmt.Errorf("invalid multipart body")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("file field is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	return data, path.Base(header.Filename), nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
