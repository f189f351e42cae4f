package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mediavault/internal/core/domain"
	"mediavault/internal/core/port"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlFileRecordRepository struct {
	db SQLQuerier
}

// NewSqlFileRecordRepository creates sqlFileRecordRepository that implements port.FileRecordRepository
func NewSqlFileRecordRepository(db SQLQuerier) port.FileRecordRepository {
	return &sqlFileRecordRepository{
		db: db,
	}
}

const fileRecordColumns = `id, name, entries, history, owner_id, created_at, updated_at`

// Create creates new file record
func (s *sqlFileRecordRepository) Create(ctx context.Context, record domain.FileRecord) error {
	entries, err := json.Marshal(record.Entries)
	if err != nil {
		return fmt.Errorf("error encoding entries: %w", err)
	}

	query := `INSERT INTO file_record (id, name, entries, history, owner_id)
              VALUES ($1, $2, $3, $4, $5)`

	_, err = s.db.ExecContext(ctx, query, record.ID, record.Name, string(entries), pq.Array(nonNil(record.History)), record.OwnerID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("error inserting file record: %w", err)
	}
	return nil
}

// FindByID finds by id
func (s *sqlFileRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	query := `SELECT ` + fileRecordColumns + ` FROM file_record WHERE id = $1`
	return s.findOne(ctx, query, id)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends
func (s *sqlFileRecordRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	query := `SELECT ` + fileRecordColumns + ` FROM file_record WHERE id = $1 FOR UPDATE`
	return s.findOne(ctx, query, id)
}

func (s *sqlFileRecordRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*domain.FileRecord, error) {
	row, err := scanFileRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileRecordNotFound
		}
		return nil, fmt.Errorf("error finding file record: %w", err)
	}
	return row.ToDomain()
}

// Update replaces entries and history
func (s *sqlFileRecordRepository) Update(ctx context.Context, record domain.FileRecord) error {
	entries, err := json.Marshal(record.Entries)
	if err != nil {
		return fmt.Errorf("error encoding entries: %w", err)
	}

	query := `UPDATE file_record
              SET entries = $1, history = $2, updated_at = now()
              WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, string(entries), pq.Array(nonNil(record.History)), record.ID)
	if err != nil {
		return fmt.Errorf("error updating file record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrFileRecordNotFound
	}
	return nil
}

// Delete removes the record
func (s *sqlFileRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM file_record WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrFileRecordNotFound
	}
	return nil
}

// List pages through records, newest first
func (s *sqlFileRecordRepository) List(ctx context.Context, q domain.RecordQuery) ([]domain.FileRecord, int, error) {
	var (
		conditions []string
		args       []any
	)
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if q.From != nil {
		args = append(args, *q.From)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if q.To != nil {
		args = append(args, *q.To)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM file_record`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting file records: %w", err)
	}

	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`SELECT %s FROM file_record%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		fileRecordColumns, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing file records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.FileRecord, 0, q.Limit)
	for rows.Next() {
		row, err := scanFileRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		record, err := row.ToDomain()
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func scanFileRecord(sc scanner) (*dbFileRecord, error) {
	var row dbFileRecord
	err := sc.Scan(
		&row.ID,
		&row.Name,
		&row.Entries,
		pq.Array(&row.History),
		&row.OwnerID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

type dbFileRecord struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Entries   []byte    `db:"entries"`
	History   []string  `db:"history"`
	OwnerID   string    `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ToDomain converts db obj to domain
func (r *dbFileRecord) ToDomain() (*domain.FileRecord, error) {
	var entries []domain.StorageEntry
	if len(r.Entries) > 0 {
		if err := json.Unmarshal(r.Entries, &entries); err != nil {
			return nil, fmt.Errorf("error decoding entries of %s: %w", r.ID, err)
		}
	}
	return &domain.FileRecord{
		ID:        r.ID,
		Name:      r.Name,
		Entries:   entries,
		History:   r.History,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}
