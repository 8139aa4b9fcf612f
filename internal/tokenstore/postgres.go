package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore keeps the token in the frontend_tokens table.
type PostgresStore struct {
	db  *sql.DB
	key string
}

// NewPostgresStore creates a PostgreSQL-backed token store. The table is
// created by database.RunMigrations.
func NewPostgresStore(db *sql.DB, key string) *PostgresStore {
	return &PostgresStore{db: db, key: key}
}

func (p *PostgresStore) Load(ctx context.Context) (string, error) {
	var token string
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM frontend_tokens WHERE name = $1`, p.key,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore: select: %w", err)
	}
	return token, nil
}

func (p *PostgresStore) Save(ctx context.Context, token string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO frontend_tokens (name, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`, p.key, token)
	if err != nil {
		return fmt.Errorf("tokenstore: upsert: %w", err)
	}
	return nil
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM frontend_tokens WHERE name = $1`, p.key); err != nil {
		return fmt.Errorf("tokenstore: delete: %w", err)
	}
	return nil
}
