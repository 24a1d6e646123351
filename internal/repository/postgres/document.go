package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"livingdocs/internal/domain"
	"livingdocs/internal/domain/models"
	"livingdocs/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = `id, owner_id, name, public_token, current_seq, current_path,
	folder_id, relative_path, downloads, available, created, last_update`

// Create inserts a document row. A public-token collision surfaces as
// domain.ErrConflict so the caller can retry with a fresh token.
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, name, public_token, current_seq, current_path,
			folder_id, relative_path, downloads, available, created, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		doc.ID,
		doc.OwnerID,
		doc.Name,
		doc.PublicToken,
		doc.CurrentSeq,
		doc.CurrentPath,
		doc.FolderID,
		doc.RelativePath,
		doc.Downloads,
		doc.Available,
		doc.Created,
		doc.LastUpdate,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("document %q: %w", doc.Name, domain.ErrConflict)
		}
		// The folder can be deleted between the service's ownership
		// check and this insert
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder of document %q: %w", doc.Name, domain.ErrNotFound)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID, scoped to its owner
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	return r.scanOne(executor.QueryRow(ctx, query, id, ownerID), id)
}

// GetByToken retrieves a document by its public token
func (r *PostgresDocumentRepository) GetByToken(ctx context.Context, token string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE public_token = $1
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	return r.scanOne(executor.QueryRow(ctx, query, token), token)
}

// ListByOwner returns the owner's documents, most recently updated first
func (r *PostgresDocumentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY last_update DESC
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ListByFolder returns documents placed directly in folderID (nil = root)
func (r *PostgresDocumentRepository) ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]models.Document, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND folder_id IS NULL
			ORDER BY name ASC
		`, documentColumns, r.tables.Documents)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND folder_id = $2
			ORDER BY name ASC
		`, documentColumns, r.tables.Documents)
		args = append(args, ownerID, *folderID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents by folder: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// SetCurrent repoints the current-version pointer and stamps last_update
func (r *PostgresDocumentRepository) SetCurrent(ctx context.Context, id, ownerID string, seq int, filePath string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET current_seq = $1, current_path = $2, last_update = $3
		WHERE id = $4 AND owner_id = $5
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, seq, filePath, time.Now(), id, ownerID)
	if err != nil {
		return fmt.Errorf("set current version: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetAvailable flips the public availability gate and stamps last_update
// so cached public copies are invalidated either way.
func (r *PostgresDocumentRepository) SetAvailable(ctx context.Context, id, ownerID string, available bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET available = $1, last_update = $2
		WHERE id = $3 AND owner_id = $4
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, available, time.Now(), id, ownerID)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// IncrementDownloads bumps the download counter
func (r *PostgresDocumentRepository) IncrementDownloads(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET downloads = downloads + 1
		WHERE id = $1
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("increment downloads: %w", err)
	}

	return nil
}

// Delete removes a document row, scoped to its owner
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresDocumentRepository) scanOne(row pgx.Row, key string) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Name,
		&doc.PublicToken,
		&doc.CurrentSeq,
		&doc.CurrentPath,
		&doc.FolderID,
		&doc.RelativePath,
		&doc.Downloads,
		&doc.Available,
		&doc.Created,
		&doc.LastUpdate,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

func (r *PostgresDocumentRepository) scanAll(rows pgx.Rows) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.OwnerID,
			&doc.Name,
			&doc.PublicToken,
			&doc.CurrentSeq,
			&doc.CurrentPath,
			&doc.FolderID,
			&doc.RelativePath,
			&doc.Downloads,
			&doc.Available,
			&doc.Created,
			&doc.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}
