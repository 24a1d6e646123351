package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"livingdocs/internal/domain"
	"livingdocs/internal/domain/models"
	"livingdocs/internal/domain/repositories"
	"livingdocs/internal/mimetype"
	"livingdocs/internal/storage"
)

// PublicService resolves unauthenticated capability-URL requests. The
// token is the only input; the response always reflects the document's
// current version at request time.
type PublicService struct {
	docRepo repositories.DocumentRepository
	store   *storage.Store
	logger  *slog.Logger
	baseURL string
}

// NewPublicService creates a new public resolver
func NewPublicService(
	docRepo repositories.DocumentRepository,
	store *storage.Store,
	logger *slog.Logger,
	baseURL string,
) *PublicService {
	return &PublicService{
		docRepo: docRepo,
		store:   store,
		logger:  logger,
		baseURL: baseURL,
	}
}

// ResolvedDocument is everything a handler needs to serve one download
type ResolvedDocument struct {
	Document    *models.Document
	Data        []byte
	FileName    string
	ContentType string
	ETag        string
}

// Resolve maps a public token to the current version's bytes. Unknown
// tokens are ErrNotFound; known but gated documents are ErrUnavailable so
// callers can distinguish "never existed" from "owner hid it". When
// ifNoneMatch equals the current ETag the blob is not read and the
// download counter does not move.
func (s *PublicService) Resolve(ctx context.Context, token, ifNoneMatch string) (*ResolvedDocument, bool, error) {
	doc, err := s.docRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, false, err
	}
	if !doc.Available {
		return nil, false, domain.ErrUnavailable
	}

	etag := ETagFor(doc)
	if ifNoneMatch != "" && ifNoneMatch == etag {
		return &ResolvedDocument{Document: doc, ETag: etag}, true, nil
	}

	data, err := s.store.Read(doc.CurrentPath)
	if err != nil {
		return nil, false, err
	}

	// Counter moves only on an actual byte transfer; failures here must
	// not break the download
	if err := s.docRepo.IncrementDownloads(ctx, doc.ID); err != nil {
		s.logger.Warn("download counter not incremented",
			"document_id", doc.ID,
			"error", err,
		)
	}

	return &ResolvedDocument{
		Document:    doc,
		Data:        data,
		FileName:    downloadFileName(doc),
		ContentType: mimetype.ForPath(doc.CurrentPath),
		ETag:        etag,
	}, false, nil
}

// UpdateStatus is the check-update response consumed by previously
// downloaded copies that embedded their own version label.
type UpdateStatus struct {
	UpToDate       bool   `json:"up_to_date"`
	CurrentVersion string `json:"current_version"`
	DownloadURL    string `json:"download_url"`
}

// CheckUpdate compares a client-reported version label against the
// document's current one. Gated documents answer exactly like the
// download path so the endpoint leaks nothing the download would not.
func (s *PublicService) CheckUpdate(ctx context.Context, token, clientVersion string) (*UpdateStatus, error) {
	doc, err := s.docRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !doc.Available {
		return nil, domain.ErrUnavailable
	}

	current := doc.CurrentLabel()
	return &UpdateStatus{
		UpToDate:       clientVersion == current,
		CurrentVersion: current,
		DownloadURL:    fmt.Sprintf("%s/api/public/%s", s.baseURL, doc.PublicToken),
	}, nil
}

// ETagFor derives a strong validator from everything that changes what a
// public request would return: identity, current pointer, gating state
// and the last mutation time.
func ETagFor(doc *models.Document) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%t|%d",
		doc.ID, doc.CurrentSeq, doc.Available, doc.LastUpdate.UnixNano())))
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// downloadFileName picks the name browsers save the file as: the logical
// document name, with the stored blob's extension appended when the name
// does not already carry one.
func downloadFileName(doc *models.Document) string {
	name := doc.Name
	blobExt := extOf(doc.CurrentPath)
	if blobExt != "" && extOf(name) == "" {
		name += blobExt
	}
	return name
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case '.':
			return path[i:]
		case '/', '\\':
			return ""
		}
	}
	return ""
}
