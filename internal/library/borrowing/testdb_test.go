package borrowing

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Tests run against a throwaway sqlite file. The store sticks to portable SQL
// (positional placeholders, guarded updates), so the same statements run on
// MySQL in production and sqlite here.
var testSchema = []string{
	`CREATE TABLE users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		email         TEXT NOT NULL,
		name          TEXT NOT NULL,
		member_since  DATETIME NOT NULL,
		role          TEXT NOT NULL DEFAULT 'member'
	)`,
	`CREATE TABLE books (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		title          TEXT NOT NULL,
		author         TEXT NOT NULL,
		category       TEXT NOT NULL,
		image          TEXT,
		description    TEXT,
		isbn           TEXT,
		published_year INTEGER,
		available      INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE borrowings (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		ulid        TEXT NOT NULL UNIQUE,
		user_id     INTEGER NOT NULL,
		book_id     INTEGER NOT NULL,
		book_title  TEXT NOT NULL,
		book_author TEXT NOT NULL,
		borrow_date DATETIME NOT NULL,
		due_date    DATETIME NOT NULL,
		returned_at DATETIME,
		status      TEXT NOT NULL DEFAULT 'borrowed'
	)`,
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(dir, "test.db")+"?_busy_timeout=5000")
	require.NoError(t, err, "open sqlite")
	t.Cleanup(func() { db.Close() })

	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "apply schema")
	}
	return db
}

func seedUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO users (username, password_hash, email, name, member_since) VALUES (?, ?, ?, ?, ?)`,
		username, "x", username+"@example.com", username, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedBook(t *testing.T, db *sql.DB, title, author string, available bool) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO books (title, author, category, available) VALUES (?, ?, ?, ?)`,
		title, author, "fiction", available,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func bookAvailable(t *testing.T, db *sql.DB, bookID int64) bool {
	t.Helper()
	var available bool
	err := db.QueryRow(`SELECT available FROM books WHERE id = ?`, bookID).Scan(&available)
	require.NoError(t, err)
	return available
}

func activeLoanCount(t *testing.T, db *sql.DB, bookID int64) int {
	t.Helper()
	var n int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM borrowings WHERE book_id = ? AND status = ?`, bookID, StatusBorrowed,
	).Scan(&n)
	require.NoError(t, err)
	return n
}

// checkAvailabilityInvariant asserts: available = false iff exactly one open
// loan exists for the book.
func checkAvailabilityInvariant(t *testing.T, db *sql.DB, bookID int64) {
	t.Helper()
	n := activeLoanCount(t, db, bookID)
	available := bookAvailable(t, db, bookID)
	if available {
		require.Equal(t, 0, n, "available book must have no open loan")
	} else {
		require.Equal(t, 1, n, "unavailable book must have exactly one open loan")
	}
}

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

func newTestService(t *testing.T, db *sql.DB, now time.Time) *Service {
	t.Helper()
	svc := NewService(db)
	svc.clock = fakeClock{t: now}
	return svc
}

func testCtx() context.Context { return context.Background() }
