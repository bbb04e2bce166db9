package repository

import (
	"context"
	"errors"

	"selecionei-client/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRecordNotFound is returned when no row matches the key
var ErrRecordNotFound = errors.New("record not found")

// RecordRepository handles database operations for client records
type RecordRepository struct {
	db *pgxpool.Pool
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

// EnsureSchema creates the client_records table when missing
func (r *RecordRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS client_records (
			key        TEXT PRIMARY KEY,
			data       BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	_, err := r.db.Exec(ctx, query)
	return err
}

// Upsert creates or replaces the record under key
func (r *RecordRepository) Upsert(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO client_records (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, key, data)
	return err
}

// GetByKey retrieves a record by key
func (r *RecordRepository) GetByKey(ctx context.Context, key string) (*models.StoredRecord, error) {
	rec := &models.StoredRecord{}
	query := `
		SELECT key, data, updated_at
		FROM client_records
		WHERE key = $1`

	err := r.db.QueryRow(ctx, query, key).Scan(
		&rec.Key,
		&rec.Data,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return rec, nil
}

// Delete deletes a record
func (r *RecordRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM client_records WHERE key = $1`
	_, err := r.db.Exec(ctx, query, key)
	return err
}
