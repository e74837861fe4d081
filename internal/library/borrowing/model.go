package borrowing

import (
	"database/sql"
	"time"
)

// Loan states. A record is created as borrowed and moves to returned exactly
// once; there is no transition out of returned.
const (
	StatusBorrowed = "borrowed"
	StatusReturned = "returned"
)

// LoanPeriod is the fixed lending policy: due date = borrow date + 14 days.
const LoanPeriod = 14 * 24 * time.Hour

// Borrowing is one row of the borrowings table.
// BookTitle/BookAuthor are a snapshot taken at borrow time and are never
// re-synced with later catalog edits.
// DueDate holds the planned deadline; ReturnedAt is set once, when the loan
// closes. The wire contract still exposes a single return_date (see dto.go).
type Borrowing struct {
	ID         int64
	ULID       string
	UserID     int64
	BookID     int64
	BookTitle  string
	BookAuthor string
	BorrowDate time.Time
	DueDate    time.Time
	ReturnedAt sql.NullTime
	Status     string
}
