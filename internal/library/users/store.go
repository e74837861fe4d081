package users

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const userColumns = `id, username, email, name, member_since, role`

func (s *Store) Insert(ctx context.Context, username, email, name, passwordHash, role string, memberSince time.Time) (int64, error) {
	const q = `
	INSERT INTO users
	(username, password_hash, email, name, member_since, role)
	VALUES (?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, username, passwordHash, email, name, memberSince, role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	var out UserResponse
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&out.ID, &out.Username, &out.Email, &out.Name, &out.MemberSince, &out.Role,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UsernameExists backs the uniqueness check at registration.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) List(ctx context.Context) ([]UserResponse, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UserResponse{}
	for rows.Next() {
		var u UserResponse
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.MemberSince, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update touches name/email only; the service checks existence beforehand.
func (s *Store) Update(ctx context.Context, id int64, in UpdateUserRequest) error {
	sets := []string{}
	args := []any{}

	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *in.Email)
	}

	if len(sets) == 0 {
		return nil
	}

	q := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)

	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM users WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
