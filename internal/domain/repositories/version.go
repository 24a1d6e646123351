package repositories

import (
	"context"
	"time"

	"livingdocs/internal/domain/models"
)

// VersionRepository stores the immutable version rows of documents.
type VersionRepository interface {
	Create(ctx context.Context, v *models.Version) error

	// GetBySeq retrieves one version of a document by sequence number
	GetBySeq(ctx context.Context, documentID string, seq int) (*models.Version, error)

	// MaxSeq returns the highest sequence number ever assigned to a
	// document, or 0 when it has no versions. New versions advance past
	// this value, not past the current pointer, so a rolled-back
	// document never reuses a sequence number.
	MaxSeq(ctx context.Context, documentID string) (int, error)

	// ListByDocument returns all versions of a document, newest first
	ListByDocument(ctx context.Context, documentID string) ([]models.Version, error)

	// ListByOwner returns all versions of all documents of one owner,
	// grouped by document and newest first within each group
	ListByOwner(ctx context.Context, ownerID string) ([]models.Version, error)

	// ListExpired returns versions created before cutoff whose sequence
	// number differs from their document's current pointer. The current
	// version is never returned regardless of age.
	ListExpired(ctx context.Context, cutoff time.Time) ([]models.Version, error)

	Delete(ctx context.Context, id string) error

	// DeleteByDocument removes all version rows of a document
	DeleteByDocument(ctx context.Context, documentID string) error
}
