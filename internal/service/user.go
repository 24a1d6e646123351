package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"livingdocs/internal/config"
	"livingdocs/internal/domain"
	"livingdocs/internal/domain/models"
	"livingdocs/internal/domain/repositories"
)

// UserService implements admin-side account management. Every method is
// reachable only through admin-gated handlers.
type UserService struct {
	userRepo  repositories.UserRepository
	docRepo   repositories.DocumentRepository
	documents *DocumentService
	logger    *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	docRepo repositories.DocumentRepository,
	documents *DocumentService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		docRepo:   docRepo,
		documents: documents,
		logger:    logger,
	}
}

// Create adds a new account. Usernames are unique; a duplicate surfaces
// as ErrConflict from the repository.
func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if err := validateCreateUser(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		IsAdmin:      req.IsAdmin,
		IsActive:     true,
		Created:      time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"username", user.Username,
		"is_admin", user.IsAdmin,
	)

	return user, nil
}

// Get returns one account by id
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// List returns all accounts
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// Update applies a partial update. Only fields present in the request
// change; a nil field leaves the stored value alone.
func (s *UserService) Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Password != nil {
		if len(*req.Password) < config.MinPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, config.MinPasswordLength)
		}
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id)
	return user, nil
}

// Delete removes an account and everything it owns. Documents go through
// the document service first so their blobs are cleaned up; the row
// cascade then removes folders and any remaining references.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	docs, err := s.docRepo.ListByOwner(ctx, id)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := s.documents.Delete(ctx, id, doc.ID); err != nil {
			return err
		}
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		"user_id", id,
		"documents", len(docs),
	)

	return nil
}

func validateCreateUser(req *models.CreateUserRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username,
			validation.Required,
			validation.Length(3, 64),
			is.Alphanumeric,
		),
		validation.Field(&req.Password,
			validation.Required,
			validation.Length(config.MinPasswordLength, 128),
		),
		validation.Field(&req.Email,
			validation.When(req.Email != "", is.Email),
		),
	)
}
