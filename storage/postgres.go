package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"selecionei-client/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements Storage interface on a Postgres table
type PostgresStorage struct {
	pool    *pgxpool.Pool
	records *repository.RecordRepository
}

// NewPostgresStorage opens a pool, checks connectivity and ensures the table exists
func NewPostgresStorage(ctx context.Context, connString string) (*PostgresStorage, error) {
	if connString == "" {
		return nil, errors.New("DATABASE_URL is required for postgres storage")
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	records := repository.NewRecordRepository(pool)
	if err := records.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	log.Println("Postgres record storage ready")
	return &PostgresStorage{pool: pool, records: records}, nil
}

// Put upserts a record
func (s *PostgresStorage) Put(ctx context.Context, key string, data []byte) error {
	return s.records.Upsert(ctx, key, data)
}

// Get retrieves a record
func (s *PostgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	rec, err := s.records.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec.Data, nil
}

// Delete removes a record
func (s *PostgresStorage) Delete(ctx context.Context, key string) error {
	return s.records.Delete(ctx, key)
}

// Close closes the pool
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
