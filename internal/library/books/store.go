package books

import (
	"context"
	"database/sql"
	"strings"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const bookColumns = `id, title, author, category, image, description, isbn, published_year, available`

func (s *Store) Insert(ctx context.Context, in CreateBookRequest) (int64, error) {
	const q = `
	INSERT INTO books
	(title, author, category, image, description, isbn, published_year, available)
	VALUES (?, ?, ?, ?, ?, ?, ?, 1)`
	res, err := s.db.ExecContext(ctx, q,
		in.Title, in.Author, in.Category, in.Image, in.Description, in.ISBN, in.PublishedYear,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*BookResponse, error) {
	q := `SELECT ` + bookColumns + ` FROM books WHERE id = ?`
	var out BookResponse
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&out.ID, &out.Title, &out.Author, &out.Category,
		&out.Image, &out.Description, &out.ISBN, &out.PublishedYear, &out.Available,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) List(ctx context.Context, f ListQuery) ([]BookResponse, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + bookColumns + ` FROM books WHERE 1=1`)

	args := []any{}
	if f.Category != "" && f.Category != "all" {
		sb.WriteString(` AND category = ?`)
		args = append(args, f.Category)
	}
	sb.WriteString(` ORDER BY id`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BookResponse{}
	for rows.Next() {
		var b BookResponse
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Category,
			&b.Image, &b.Description, &b.ISBN, &b.PublishedYear, &b.Available,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites only the fields present in the request. The SET clause is
// built dynamically; an empty request is a no-op. Existence is checked by the
// service beforehand because MySQL reports zero affected rows for a no-change
// update, so RowsAffected cannot distinguish "missing" from "unchanged".
func (s *Store) Update(ctx context.Context, id int64, in UpdateBookRequest) error {
	sets := []string{}
	args := []any{}

	if in.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *in.Title)
	}
	if in.Author != nil {
		sets = append(sets, "author = ?")
		args = append(args, *in.Author)
	}
	if in.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *in.Category)
	}
	if in.Image != nil {
		sets = append(sets, "image = ?")
		args = append(args, *in.Image)
	}
	if in.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *in.Description)
	}
	if in.ISBN != nil {
		sets = append(sets, "isbn = ?")
		args = append(args, *in.ISBN)
	}
	if in.PublishedYear != nil {
		sets = append(sets, "published_year = ?")
		args = append(args, *in.PublishedYear)
	}

	if len(sets) == 0 {
		return nil
	}

	q := `UPDATE books SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)

	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM books WHERE id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
