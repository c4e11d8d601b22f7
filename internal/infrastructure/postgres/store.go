package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/otp-login/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS otp_codes (
	email TEXT PRIMARY KEY,
	code  TEXT NOT NULL
)`

// querier is the subset of *pgxpool.Pool the store uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CodeStore keeps pending codes in the otp_codes table.
type CodeStore struct {
	db querier
}

func NewCodeStore(db querier) *CodeStore {
	return &CodeStore{db: db}
}

// NewPool connects, pings and ensures the otp_codes table exists.
func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create otp_codes: %w", err)
	}
	return pool, nil
}

func (s *CodeStore) Get(ctx context.Context, email string) (string, error) {
	var code string
	err := s.db.QueryRow(ctx, `SELECT code FROM otp_codes WHERE email = $1`, email).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("otp not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *CodeStore) Set(ctx context.Context, email, code string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO otp_codes (email, code) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET code = EXCLUDED.code`, email, code)
	return err
}

func (s *CodeStore) Delete(ctx context.Context, email string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM otp_codes WHERE email = $1`, email)
	return err
}

func (s *CodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM otp_codes WHERE email = $1 AND code = $2`, email, code)
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
