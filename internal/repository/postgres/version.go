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

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a version row. (document_id, seq) is unique, so a
// concurrent duplicate insert surfaces as domain.ErrConflict.
func (r *PostgresVersionRepository) Create(ctx context.Context, v *models.Version) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, seq, label, file_path, created)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		v.ID,
		v.DocumentID,
		v.Seq,
		v.Label,
		v.FilePath,
		v.Created,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("version %s of document %s: %w", v.Label, v.DocumentID, domain.ErrConflict)
		}
		return fmt.Errorf("create version: %w", err)
	}

	return nil
}

// GetBySeq retrieves one version of a document by sequence number
func (r *PostgresVersionRepository) GetBySeq(ctx context.Context, documentID string, seq int) (*models.Version, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, seq, label, file_path, created
		FROM %s
		WHERE document_id = $1 AND seq = $2
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)

	var v models.Version
	err := executor.QueryRow(ctx, query, documentID, seq).Scan(
		&v.ID,
		&v.DocumentID,
		&v.Seq,
		&v.Label,
		&v.FilePath,
		&v.Created,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("version %s of document %s: %w",
				models.LabelForSeq(seq), documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &v, nil
}

// MaxSeq returns the highest sequence number ever assigned to a
// document, or 0 when it has no versions
func (r *PostgresVersionRepository) MaxSeq(ctx context.Context, documentID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(seq), 0)
		FROM %s
		WHERE document_id = $1
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)

	var maxSeq int
	if err := executor.QueryRow(ctx, query, documentID).Scan(&maxSeq); err != nil {
		return 0, fmt.Errorf("max version seq: %w", err)
	}

	return maxSeq, nil
}

// ListByDocument returns all versions of a document, newest first
func (r *PostgresVersionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Version, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, seq, label, file_path, created
		FROM %s
		WHERE document_id = $1
		ORDER BY seq DESC
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ListByOwner returns all versions of all documents of one owner. One
// query feeds the version-label column of the document list, grouped by
// document and newest first within each group.
func (r *PostgresVersionRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Version, error) {
	query := fmt.Sprintf(`
		SELECT v.id, v.document_id, v.seq, v.label, v.file_path, v.created
		FROM %s v
		JOIN %s d ON d.id = v.document_id
		WHERE d.owner_id = $1
		ORDER BY v.document_id, v.seq DESC
	`, r.tables.Versions, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list versions by owner: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ListExpired returns versions older than cutoff that are not their
// document's current version. The join keeps the exclusion in one query
// so the sweeper can never even see a current version.
func (r *PostgresVersionRepository) ListExpired(ctx context.Context, cutoff time.Time) ([]models.Version, error) {
	query := fmt.Sprintf(`
		SELECT v.id, v.document_id, v.seq, v.label, v.file_path, v.created
		FROM %s v
		JOIN %s d ON d.id = v.document_id
		WHERE v.created < $1 AND v.seq <> d.current_seq
		ORDER BY v.created ASC
	`, r.tables.Versions, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list expired versions: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// Delete removes a single version row
func (r *PostgresVersionRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete version: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByDocument removes all version rows of a document
func (r *PostgresVersionRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete versions of document %s: %w", documentID, err)
	}

	return nil
}

func (r *PostgresVersionRepository) scanAll(rows pgx.Rows) ([]models.Version, error) {
	var versions []models.Version
	for rows.Next() {
		var v models.Version
		err := rows.Scan(
			&v.ID,
			&v.DocumentID,
			&v.Seq,
			&v.Label,
			&v.FilePath,
			&v.Created,
		)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	return versions, nil
}
