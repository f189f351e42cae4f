package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mediavault/internal/core/port"
)

// unitOfWork hands out repositories bound to db, or to tx inside Execute
type unitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) querier() SQLQuerier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *unitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return NewSQLUploadSessionRepository(u.querier())
}

func (u *unitOfWork) FileRecordRepo() port.FileRecordRepository {
	return NewSqlFileRecordRepository(u.querier())
}

// Execute runs fn in a transaction, committed when fn returns nil.
// Nested calls join the outer transaction.
func (u *unitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) (err error) {
	if u.tx != nil {
		return fn(u)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&unitOfWork{db: u.db, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
