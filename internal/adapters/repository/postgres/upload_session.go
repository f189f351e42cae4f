package postgres

import (
	"context"
	"database/sql"
	"errors"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/port"
	"time"

	"github.com/google/uuid"
)

type sqlUploadSessionRepository struct {
	db SQLQuerier
}

// NewSQLUploadSessionRepository Creates a new sqlUploadSessionRepository
func NewSQLUploadSessionRepository(db SQLQuerier) port.UploadSessionRepository {
	return &sqlUploadSessionRepository{db: db}
}

const uploadSessionColumns = `id, storage_key, provider_upload_id, file_name, content_type, size_bytes,
		part_size, total_parts, expires_at, status, created_at, updated_at`

// Create creates an upload session
func (s *sqlUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	query := `
		INSERT INTO upload_session (
			id, storage_key, provider_upload_id, file_name, content_type, size_bytes,
			part_size, total_parts, expires_at, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.StorageKey,
		session.ProviderUploadID,
		session.FileName,
		session.ContentType,
		session.SizeBytes,
		session.PartSize,
		session.TotalParts,
		session.ExpiresAt,
		session.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *sqlUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + ` FROM upload_session WHERE id = $1`

	row, err := scanUploadSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return row.ToDomain(), nil
}

// TransitionStatus moves a session from one status to another, it fails when the session is no longer in from
func (s *sqlUploadSessionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from domain.UploadSessionStatus, to domain.UploadSessionStatus) error {
	query := `UPDATE upload_session SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`

	result, err := s.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM upload_session WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrSessionNotFound
		}
		return domain.ErrSessionStateConflict
	}

	return nil
}

func (s *sqlUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + ` FROM upload_session WHERE status = 'open' AND expires_at < $1`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		row, err := scanUploadSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUploadSession(sc scanner) (*dbUploadSession, error) {
	var row dbUploadSession
	err := sc.Scan(
		&row.ID,
		&row.StorageKey,
		&row.ProviderUploadID,
		&row.FileName,
		&row.ContentType,
		&row.SizeBytes,
		&row.PartSize,
		&row.TotalParts,
		&row.ExpiresAt,
		&row.Status,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

type dbUploadSession struct {
	ID               uuid.UUID `db:"id"`
	StorageKey       string    `db:"storage_key"`
	ProviderUploadID string    `db:"provider_upload_id"`
	FileName         string    `db:"file_name"`
	ContentType      string    `db:"content_type"`
	SizeBytes        int64     `db:"size_bytes"`
	PartSize         int64     `db:"part_size"`
	TotalParts       int       `db:"total_parts"`
	ExpiresAt        time.Time `db:"expires_at"`
	Status           string    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ToDomain converts db obj to domain
func (s *dbUploadSession) ToDomain() *domain.UploadSession {
	return &domain.UploadSession{
		ID:               s.ID,
		StorageKey:       s.StorageKey,
		ProviderUploadID: s.ProviderUploadID,
		FileName:         s.FileName,
		ContentType:      s.ContentType,
		SizeBytes:        s.SizeBytes,
		PartSize:         s.PartSize,
		TotalParts:       s.TotalParts,
		ExpiresAt:        s.ExpiresAt,
		Status:           domain.UploadSessionStatus(s.Status),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
