package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"livingdocs/internal/config"
	"livingdocs/internal/domain"
	"livingdocs/internal/domain/models"
	"livingdocs/internal/domain/repositories"
	"livingdocs/internal/storage"
)

// tokenCreateAttempts bounds the retry loop on public token collisions.
// With 256-bit tokens a collision is a practical impossibility, but the
// unique constraint makes retrying cheap and removes the failure mode
// entirely.
const tokenCreateAttempts = 3

// DocumentService owns the document lifecycle: creation, version uploads,
// the current-version pointer, availability gating and deletion.
type DocumentService struct {
	docRepo     repositories.DocumentRepository
	versionRepo repositories.VersionRepository
	folderRepo  repositories.FolderRepository
	txManager   repositories.TransactionManager
	store       *storage.Store
	logger      *slog.Logger
	baseURL     string
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	store *storage.Store,
	logger *slog.Logger,
	baseURL string,
) *DocumentService {
	return &DocumentService{
		docRepo:     docRepo,
		versionRepo: versionRepo,
		folderRepo:  folderRepo,
		txManager:   txManager,
		store:       store,
		logger:      logger,
		baseURL:     baseURL,
	}
}

// CreateDocumentRequest carries one uploaded file and its placement
type CreateDocumentRequest struct {
	Name         string
	FileName     string
	FolderID     *string
	RelativePath string
	Data         []byte
}

// Create registers a new document with its initial version. The document
// row, version row and current pointer are committed atomically; the blob
// is written inside the same transaction scope so a storage failure rolls
// everything back.
func (s *DocumentService) Create(ctx context.Context, ownerID string, req *CreateDocumentRequest) (*models.Document, error) {
	if req.Name == "" {
		req.Name = req.FileName
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	// Placement must exist and belong to the caller before anything is
	// written
	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID, ownerID); err != nil {
			return nil, err
		}
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))

	var doc *models.Document
	for attempt := 0; attempt < tokenCreateAttempts; attempt++ {
		token, err := NewPublicToken()
		if err != nil {
			return nil, err
		}

		docID := uuid.New().String()
		blobName := storage.BlobName(docID, models.LabelForSeq(models.FirstSeq), ext)
		now := time.Now()

		candidate := &models.Document{
			ID:           docID,
			OwnerID:      ownerID,
			Name:         req.Name,
			PublicToken:  token,
			CurrentSeq:   models.FirstSeq,
			CurrentPath:  blobName,
			FolderID:     req.FolderID,
			RelativePath: req.RelativePath,
			Available:    true,
			Created:      now,
			LastUpdate:   now,
		}

		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			if err := s.docRepo.Create(txCtx, candidate); err != nil {
				return err
			}
			version := &models.Version{
				ID:         uuid.New().String(),
				DocumentID: docID,
				Seq:        models.FirstSeq,
				Label:      models.LabelForSeq(models.FirstSeq),
				FilePath:   blobName,
				Created:    now,
			}
			if err := s.versionRepo.Create(txCtx, version); err != nil {
				return err
			}
			_, err := s.store.Write(docID, version.Label, req.Data, ext, s.trackingInfo(candidate, version.Label))
			return err
		})
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				s.logger.Warn("public token collision, retrying",
					"attempt", attempt+1,
				)
				continue
			}
			return nil, err
		}

		doc = candidate
		break
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: could not allocate a unique public token", domain.ErrConflict)
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"name", doc.Name,
		"owner_id", ownerID,
		"size", len(req.Data),
	)

	return doc, nil
}

// AddVersion uploads new content for an existing document. The sequence
// number advances by one and the current pointer moves to the new version
// in the same transaction.
func (s *DocumentService) AddVersion(ctx context.Context, ownerID, docID string, fileName string, data []byte) (*models.Document, error) {
	if err := validateUpload(fileName, data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.docRepo.GetByID(ctx, docID, ownerID)
	if err != nil {
		return nil, err
	}

	// The sequence advances past the highest version ever created, not
	// past the current pointer. A document rolled back to an older
	// version would otherwise try to reuse an occupied sequence number.
	maxSeq, err := s.versionRepo.MaxSeq(ctx, docID)
	if err != nil {
		return nil, err
	}

	newSeq := maxSeq + 1
	label := models.LabelForSeq(newSeq)
	ext := strings.ToLower(filepath.Ext(fileName))
	blobName := storage.BlobName(docID, label, ext)
	now := time.Now()

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		version := &models.Version{
			ID:         uuid.New().String(),
			DocumentID: docID,
			Seq:        newSeq,
			Label:      label,
			FilePath:   blobName,
			Created:    now,
		}
		if err := s.versionRepo.Create(txCtx, version); err != nil {
			return err
		}
		if _, err := s.store.Write(docID, label, data, ext, s.trackingInfo(doc, label)); err != nil {
			return err
		}
		// Pointer moves last so it can never reference a version that
		// failed to materialize
		return s.docRepo.SetCurrent(txCtx, docID, ownerID, newSeq, blobName)
	})
	if err != nil {
		return nil, err
	}

	doc.CurrentSeq = newSeq
	doc.CurrentPath = blobName
	doc.LastUpdate = now

	s.logger.Info("version added",
		"id", docID,
		"version", label,
		"size", len(data),
	)

	return doc, nil
}

// SetCurrentVersion repoints the current pointer to an existing version.
// Pointing at the already-current version is a no-op, so retries are safe.
func (s *DocumentService) SetCurrentVersion(ctx context.Context, ownerID, docID, label string) (*models.Document, error) {
	seq, ok := models.SeqForLabel(label)
	if !ok {
		return nil, fmt.Errorf("%w: invalid version label %q", domain.ErrValidation, label)
	}

	doc, err := s.docRepo.GetByID(ctx, docID, ownerID)
	if err != nil {
		return nil, err
	}
	if doc.CurrentSeq == seq {
		return doc, nil
	}

	version, err := s.versionRepo.GetBySeq(ctx, docID, seq)
	if err != nil {
		return nil, err
	}

	if err := s.docRepo.SetCurrent(ctx, docID, ownerID, seq, version.FilePath); err != nil {
		return nil, err
	}

	doc.CurrentSeq = seq
	doc.CurrentPath = version.FilePath
	doc.LastUpdate = time.Now()

	s.logger.Info("current version changed",
		"id", docID,
		"version", label,
	)

	return doc, nil
}

// SetAvailability gates or ungates the public link. The token itself is
// never rotated: flipping back restores the exact same URL.
func (s *DocumentService) SetAvailability(ctx context.Context, ownerID, docID string, available bool) (*models.Document, error) {
	if err := s.docRepo.SetAvailable(ctx, docID, ownerID, available); err != nil {
		return nil, err
	}
	doc, err := s.docRepo.GetByID(ctx, docID, ownerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("availability changed",
		"id", docID,
		"available", available,
	)

	return doc, nil
}

// Get returns one document with its full version history, newest first
func (s *DocumentService) Get(ctx context.Context, ownerID, docID string) (*models.DocumentWithVersions, error) {
	doc, err := s.docRepo.GetByID(ctx, docID, ownerID)
	if err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(versions))
	for i, v := range versions {
		labels[i] = v.Label
	}

	return &models.DocumentWithVersions{
		Document: *doc,
		Version:  doc.CurrentLabel(),
		Versions: labels,
	}, nil
}

// List returns the caller's documents, most recently updated first, each
// with its full version-label history newest first
func (s *DocumentService) List(ctx context.Context, ownerID string) ([]models.DocumentWithVersions, error) {
	docs, err := s.docRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	labels := make(map[string][]string, len(docs))
	for _, v := range versions {
		labels[v.DocumentID] = append(labels[v.DocumentID], v.Label)
	}

	out := make([]models.DocumentWithVersions, len(docs))
	for i, doc := range docs {
		out[i] = models.DocumentWithVersions{
			Document: doc,
			Version:  doc.CurrentLabel(),
			Versions: labels[doc.ID],
		}
	}
	return out, nil
}

// GetContent returns the stored bytes of one version along with the blob
// path the bytes came from, so callers derive the content type from the
// version actually served. An empty label selects the current version.
func (s *DocumentService) GetContent(ctx context.Context, ownerID, docID, label string) (*models.Document, []byte, string, error) {
	doc, err := s.docRepo.GetByID(ctx, docID, ownerID)
	if err != nil {
		return nil, nil, "", err
	}

	path := doc.CurrentPath
	if label != "" && label != doc.CurrentLabel() {
		seq, ok := models.SeqForLabel(label)
		if !ok {
			return nil, nil, "", fmt.Errorf("%w: invalid version label %q", domain.ErrValidation, label)
		}
		version, err := s.versionRepo.GetBySeq(ctx, docID, seq)
		if err != nil {
			return nil, nil, "", err
		}
		path = version.FilePath
	}

	data, err := s.store.Read(path)
	if err != nil {
		return nil, nil, "", err
	}
	return doc, data, path, nil
}

// Delete removes a document, its version rows and its blobs. Rows go
// first in one transaction; blob removal afterwards is best-effort since
// an orphaned blob is harmless while an orphaned row is not.
func (s *DocumentService) Delete(ctx context.Context, ownerID, docID string) error {
	if _, err := s.docRepo.GetByID(ctx, docID, ownerID); err != nil {
		return err
	}
	versions, err := s.versionRepo.ListByDocument(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.versionRepo.DeleteByDocument(txCtx, docID); err != nil {
			return err
		}
		return s.docRepo.Delete(txCtx, docID, ownerID)
	})
	if err != nil {
		return err
	}

	for _, v := range versions {
		if err := s.store.Delete(v.FilePath); err != nil {
			s.logger.Warn("orphaned blob left behind",
				"document_id", docID,
				"path", v.FilePath,
				"error", err,
			)
		}
	}

	s.logger.Info("document deleted",
		"id", docID,
		"versions", len(versions),
	)

	return nil
}

// PublicURL renders the stable download link for a document
func (s *DocumentService) PublicURL(doc *models.Document) string {
	return fmt.Sprintf("%s/api/public/%s", s.baseURL, doc.PublicToken)
}

func (s *DocumentService) trackingInfo(doc *models.Document, label string) storage.TrackingInfo {
	return storage.TrackingInfo{
		DocumentID:     doc.ID,
		VersionLabel:   label,
		CheckUpdateURL: fmt.Sprintf("%s/api/public/%s/check-update?version=%s", s.baseURL, doc.PublicToken, label),
	}
}

func (s *DocumentService) validateCreateRequest(req *CreateDocumentRequest) error {
	if err := validateUpload(req.FileName, req.Data); err != nil {
		return err
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxDocumentNameLength),
		),
		validation.Field(&req.RelativePath,
			validation.Length(0, config.MaxRelativePathLength),
		),
	)
}

func validateUpload(fileName string, data []byte) error {
	if fileName == "" {
		return errors.New("file name is required")
	}
	if len(data) == 0 {
		return errors.New("uploaded file is empty")
	}
	if len(data) > config.MaxUploadBytes {
		return fmt.Errorf("uploaded file exceeds %d bytes", config.MaxUploadBytes)
	}
	return nil
}
