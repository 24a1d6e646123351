package repositories

import (
	"context"

	"livingdocs/internal/domain/models"
)

// UserRepository stores user accounts. Deleting a user cascades to its
// documents, folders and versions at the schema level; blob cleanup is the
// document service's job.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
