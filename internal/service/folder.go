package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"livingdocs/internal/config"
	"livingdocs/internal/domain"
	"livingdocs/internal/domain/models"
	"livingdocs/internal/domain/repositories"
)

// FolderService manages the per-owner folder tree
type FolderService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	documents  *DocumentService
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	documents *DocumentService,
	logger *slog.Logger,
) *FolderService {
	return &FolderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		documents:  documents,
		logger:     logger,
	}
}

// Create adds a folder under parentID (nil for root). Sibling names are
// unique per parent; the parent must belong to the caller.
func (s *FolderService) Create(ctx context.Context, ownerID, name string, parentID *string) (*models.Folder, error) {
	if err := validateFolderName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *parentID, ownerID); err != nil {
			return nil, err
		}
	}

	existing, err := s.folderRepo.GetByNameAndParent(ctx, ownerID, name, parentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("folder %q already exists here", name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	folder := &models.Folder{
		ID:       uuid.New().String(),
		OwnerID:  ownerID,
		Name:     name,
		ParentID: parentID,
		Created:  time.Now(),
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", name,
		"owner_id", ownerID,
	)

	return folder, nil
}

// Get returns one folder owned by the caller
func (s *FolderService) Get(ctx context.Context, ownerID, folderID string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, folderID, ownerID)
}

// List returns every folder of the caller as a flat list
func (s *FolderService) List(ctx context.Context, ownerID string) ([]models.Folder, error) {
	return s.folderRepo.ListByOwner(ctx, ownerID)
}

// Delete removes a folder and everything beneath it: subfolders
// depth-first, then the folder's documents (including their blobs), then
// the folder row itself.
func (s *FolderService) Delete(ctx context.Context, ownerID, folderID string) error {
	if _, err := s.folderRepo.GetByID(ctx, folderID, ownerID); err != nil {
		return err
	}
	if err := s.deleteRecursive(ctx, ownerID, folderID); err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"owner_id", ownerID,
	)

	return nil
}

func (s *FolderService) deleteRecursive(ctx context.Context, ownerID, folderID string) error {
	children, err := s.folderRepo.ListChildren(ctx, &folderID, ownerID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.deleteRecursive(ctx, ownerID, child.ID); err != nil {
			return err
		}
	}

	// Documents go through the document service so blobs are cleaned up
	docs, err := s.docRepo.ListByFolder(ctx, &folderID, ownerID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := s.documents.Delete(ctx, ownerID, doc.ID); err != nil {
			return err
		}
	}

	return s.folderRepo.Delete(ctx, folderID, ownerID)
}

// EnsureFolderPath resolves a slash-separated relative path to a folder
// id, creating missing segments along the way. Existing segments are
// reused, so uploading many files under the same prefix yields one folder
// per distinct segment, not one per file. An empty path (or ".", the
// path.Dir of a bare file name) means root placement and returns nil.
func (s *FolderService) EnsureFolderPath(ctx context.Context, ownerID, path string) (*string, error) {
	path = strings.Trim(path, "/")
	if path == "" || path == "." {
		return nil, nil
	}
	if len(path) > config.MaxRelativePathLength {
		return nil, fmt.Errorf("%w: relative path too long", domain.ErrValidation)
	}

	var parentID *string
	for _, segment := range strings.Split(path, "/") {
		if err := validateFolderName(segment); err != nil {
			return nil, fmt.Errorf("%w: path segment %q: %v", domain.ErrValidation, segment, err)
		}

		existing, err := s.folderRepo.GetByNameAndParent(ctx, ownerID, segment, parentID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			existing = &models.Folder{
				ID:       uuid.New().String(),
				OwnerID:  ownerID,
				Name:     segment,
				ParentID: parentID,
				Created:  time.Now(),
			}
			if err := s.folderRepo.Create(ctx, existing); err != nil {
				return nil, err
			}
		}
		id := existing.ID
		parentID = &id
	}

	return parentID, nil
}

func validateFolderName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		validation.By(func(value interface{}) error {
			v, _ := value.(string)
			if strings.ContainsAny(v, "/\\") {
				return fmt.Errorf("must not contain path separators")
			}
			if v == "." || v == ".." {
				return fmt.Errorf("reserved name")
			}
			return nil
		}),
	)
}
