package auth

import (
	"context"
	"database/sql"
	"errors"
)

// Account is the credential slice of a users row. Profile fields live in the
// users package; auth only needs what it takes to verify and mint a token.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
}

type AccountStore interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) AccountStore {
	return &Store{db: db}
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*Account, error) {
	const q = `
SELECT id, username, password_hash, role
FROM users
WHERE username = ?
LIMIT 1
`
	var a Account
	err := s.db.QueryRowContext(ctx, q, username).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
