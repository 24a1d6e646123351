package repositories

import (
	"context"

	"livingdocs/internal/domain/models"
)

// DocumentRepository is the authoritative store for document rows.
// Every owner-scoped method treats an ownership mismatch exactly like a
// missing row (domain.ErrNotFound) so existence never leaks.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document owned by ownerID
	GetByID(ctx context.Context, id, ownerID string) (*models.Document, error)

	// GetByToken retrieves a document by its public token, any owner.
	// This is the only unauthenticated lookup path.
	GetByToken(ctx context.Context, token string) (*models.Document, error)

	// ListByOwner returns every document owned by ownerID, most recently
	// updated first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error)

	// ListByFolder returns documents placed directly in folderID
	// (nil for root) for ownerID.
	ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]models.Document, error)

	// SetCurrent repoints the current-version pointer. It is the last step
	// of any multi-step mutation so the pointer can never reference a
	// version row that does not exist yet.
	SetCurrent(ctx context.Context, id, ownerID string, seq int, filePath string) error

	SetAvailable(ctx context.Context, id, ownerID string, available bool) error

	// IncrementDownloads bumps the download counter. Best-effort: callers
	// may ignore the error.
	IncrementDownloads(ctx context.Context, id string) error

	Delete(ctx context.Context, id, ownerID string) error
}
