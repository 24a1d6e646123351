package repositories

import (
	"context"

	"livingdocs/internal/domain/models"
)

// FolderRepository stores the per-owner folder tree.
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error

	GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error)

	// ListChildren lists immediate child folders of parentID (nil for root)
	ListChildren(ctx context.Context, parentID *string, ownerID string) ([]models.Folder, error)

	// ListByOwner returns every folder of ownerID as a flat list
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)

	// GetByNameAndParent finds a folder by name under parentID (nil for
	// root). Returns nil, nil when absent.
	GetByNameAndParent(ctx context.Context, ownerID, name string, parentID *string) (*models.Folder, error)

	Delete(ctx context.Context, id, ownerID string) error
}
