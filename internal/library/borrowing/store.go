package borrowing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	platformdb "libraryhub-backend/internal/platform/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const borrowingColumns = `id, ulid, user_id, book_id, book_title, book_author, borrow_date, due_date, returned_at, status`

func scanBorrowing(row *sql.Row) (*Borrowing, error) {
	var b Borrowing
	err := row.Scan(
		&b.ID, &b.ULID, &b.UserID, &b.BookID, &b.BookTitle, &b.BookAuthor,
		&b.BorrowDate, &b.DueDate, &b.ReturnedAt, &b.Status,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ---- Transactional methods ----
// These take a platformdb.DBTX so the whole borrow/return flow shares one
// transaction; the service owns the transaction boundary.

// HasActiveLoan reports whether this (user, book) pair already has an open
// loan.
func (s *Store) HasActiveLoan(ctx context.Context, q platformdb.DBTX, userID, bookID int64) (bool, error) {
	const query = `
	SELECT EXISTS(
		SELECT 1 FROM borrowings
		WHERE user_id = ? AND book_id = ? AND status = ?
	)`
	var exists bool
	if err := q.QueryRowContext(ctx, query, userID, bookID, StatusBorrowed).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MarkBookBorrowed flips books.available to false. The "AND available = 1"
// guard is what serializes concurrent borrows of the same book: only one
// transaction gets the row, everyone else sees zero rows affected. A missing
// book also yields zero rows, so the caller cannot tell the two apart.
func (s *Store) MarkBookBorrowed(ctx context.Context, q platformdb.DBTX, bookID int64) (bool, error) {
	const query = `UPDATE books SET available = 0 WHERE id = ? AND available = 1`
	res, err := q.ExecContext(ctx, query, bookID)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff == 1, nil
}

// MarkBookAvailable flips books.available back to true. A book deleted from
// the catalog while on loan is tolerated: zero rows affected is not an error.
func (s *Store) MarkBookAvailable(ctx context.Context, q platformdb.DBTX, bookID int64) error {
	const query = `UPDATE books SET available = 1 WHERE id = ?`
	_, err := q.ExecContext(ctx, query, bookID)
	return err
}

func (s *Store) InsertBorrowing(ctx context.Context, q platformdb.DBTX, b *Borrowing) error {
	const query = `
	INSERT INTO borrowings
	(ulid, user_id, book_id, book_title, book_author, borrow_date, due_date, returned_at, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?)`
	res, err := q.ExecContext(ctx, query,
		b.ULID, b.UserID, b.BookID, b.BookTitle, b.BookAuthor,
		b.BorrowDate, b.DueDate, b.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

func (s *Store) GetBorrowing(ctx context.Context, q platformdb.DBTX, id int64) (*Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings WHERE id = ?`
	b, err := scanBorrowing(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("borrowing record not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// MarkReturned closes the loan. The "AND status = 'borrowed'" guard makes the
// transition single-shot even under concurrent returns of the same id.
func (s *Store) MarkReturned(ctx context.Context, q platformdb.DBTX, id int64, returnedAt time.Time) (bool, error) {
	const query = `UPDATE borrowings SET status = ?, returned_at = ? WHERE id = ? AND status = ?`
	res, err := q.ExecContext(ctx, query, StatusReturned, returnedAt, id, StatusBorrowed)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff == 1, nil
}

// ---- Queries ----

func (s *Store) ListAll(ctx context.Context) ([]Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings ORDER BY id`
	return s.list(ctx, query)
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings WHERE user_id = ? ORDER BY id`
	return s.list(ctx, query, userID)
}

// ListOverdue selects open loans whose due date is strictly in the past;
// a loan due exactly at now is not overdue.
func (s *Store) ListOverdue(ctx context.Context, now time.Time) ([]Borrowing, error) {
	query := `SELECT ` + borrowingColumns + ` FROM borrowings WHERE status = ? AND due_date < ? ORDER BY id`
	return s.list(ctx, query, StatusBorrowed, now)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Borrowing, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Borrowing
	for rows.Next() {
		var b Borrowing
		if err := rows.Scan(
			&b.ID, &b.ULID, &b.UserID, &b.BookID, &b.BookTitle, &b.BookAuthor,
			&b.BorrowDate, &b.DueDate, &b.ReturnedAt, &b.Status,
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
