package borrowing

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	platformdb "libraryhub-backend/internal/platform/db"
)

// Clock is injected so due-date arithmetic and overdue detection are testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Service is the borrowing engine. It holds no loan state between calls:
// every operation re-reads the current book/loan rows inside one transaction.
type Service struct {
	db    *sql.DB
	store *Store
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{
		db:    db,
		store: NewStore(db),
		clock: realClock{},
		id:    ulidGen{},
	}
}

// BorrowBook opens a loan and flips the book unavailable, atomically.
// Precondition order matters: the duplicate-loan check runs before the
// availability check, so a user re-borrowing their own book gets
// DUPLICATE_ACTIVE_LOAN, not BOOK_UNAVAILABLE.
func (s *Service) BorrowBook(ctx context.Context, req BorrowRequest) (*BorrowingResponse, error) {
	if req.UserID <= 0 {
		return nil, ErrInvalid("user_id must be > 0")
	}
	if req.BookID <= 0 {
		return nil, ErrInvalid("book_id must be > 0")
	}
	if strings.TrimSpace(req.BookTitle) == "" || strings.TrimSpace(req.BookAuthor) == "" {
		return nil, ErrInvalid("book_title and book_author are required")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rec := &Borrowing{
		ULID:       idStr,
		UserID:     req.UserID,
		BookID:     req.BookID,
		BookTitle:  req.BookTitle,
		BookAuthor: req.BookAuthor,
		BorrowDate: now,
		DueDate:    now.Add(LoanPeriod),
		Status:     StatusBorrowed,
	}

	err = platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		// 1. Duplicate active loan for this (user, book)?
		active, err := s.store.HasActiveLoan(ctx, tx, req.UserID, req.BookID)
		if err != nil {
			return err
		}
		if active {
			return ErrDuplicateActiveLoan()
		}

		// 2. Claim the book. The guarded update both checks availability and
		// serializes racing borrows; the loser sees BOOK_UNAVAILABLE.
		ok, err := s.store.MarkBookBorrowed(ctx, tx, req.BookID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBookUnavailable()
		}

		// 3. Insert the loan row.
		return s.store.InsertBorrowing(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}

	resp := buildBorrowingResponse(rec)
	return &resp, nil
}

// ReturnBook closes a loan and flips the book back to available. A book that
// was deleted from the catalog while on loan is tolerated silently; the loan
// state still transitions.
func (s *Service) ReturnBook(ctx context.Context, borrowID int64) (*BorrowingResponse, error) {
	now := s.clock.Now()

	var rec *Borrowing
	err := platformdb.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx platformdb.DBTX) error {
		var err error
		rec, err = s.store.GetBorrowing(ctx, tx, borrowID)
		if err != nil {
			return err
		}
		if rec.Status == StatusReturned {
			return ErrAlreadyReturned()
		}

		ok, err := s.store.MarkReturned(ctx, tx, borrowID, now)
		if err != nil {
			return err
		}
		if !ok {
			// lost a race with a concurrent return of the same id
			return ErrAlreadyReturned()
		}

		return s.store.MarkBookAvailable(ctx, tx, rec.BookID)
	})
	if err != nil {
		return nil, err
	}

	rec.Status = StatusReturned
	rec.ReturnedAt = sql.NullTime{Time: now, Valid: true}
	resp := buildBorrowingResponse(rec)
	return &resp, nil
}

// ListOverdue re-evaluates "now" on every call; there is no sweep or cache.
func (s *Service) ListOverdue(ctx context.Context) ([]BorrowingResponse, error) {
	items, err := s.store.ListOverdue(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return buildList(items), nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]BorrowingResponse, error) {
	items, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildList(items), nil
}

func (s *Service) ListAll(ctx context.Context) ([]BorrowingResponse, error) {
	items, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildList(items), nil
}

func buildList(items []Borrowing) []BorrowingResponse {
	result := make([]BorrowingResponse, 0, len(items))
	for i := range items {
		result = append(result, buildBorrowingResponse(&items[i]))
	}
	return result
}
