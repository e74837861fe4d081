package borrowing

import "time"

// BorrowRequest comes from the frontend with a snapshot of the book's
// title/author; the loan record keeps that copy even if the book is later
// edited or deleted.
type BorrowRequest struct {
	UserID     int64  `json:"user_id" binding:"required"`
	BookID     int64  `json:"book_id" binding:"required"`
	BookTitle  string `json:"book_title" binding:"required"`
	BookAuthor string `json:"book_author" binding:"required"`
}

type BorrowingResponse struct {
	ID         int64     `json:"id"`
	ULID       string    `json:"borrow_ulid"`
	UserID     int64     `json:"user_id"`
	BookID     int64     `json:"book_id"`
	BookTitle  string    `json:"book_title"`
	BookAuthor string    `json:"book_author"`
	BorrowDate time.Time `json:"borrow_date"`
	// return_date keeps the legacy dual meaning on the wire: the due date
	// while the loan is open, the actual return time once it is closed.
	ReturnDate *time.Time `json:"return_date"`
	Status     string     `json:"status"`
}

func buildBorrowingResponse(b *Borrowing) BorrowingResponse {
	resp := BorrowingResponse{
		ID:         b.ID,
		ULID:       b.ULID,
		UserID:     b.UserID,
		BookID:     b.BookID,
		BookTitle:  b.BookTitle,
		BookAuthor: b.BookAuthor,
		BorrowDate: b.BorrowDate,
		Status:     b.Status,
	}
	if b.Status == StatusReturned && b.ReturnedAt.Valid {
		val := b.ReturnedAt.Time
		resp.ReturnDate = &val
	} else {
		val := b.DueDate
		resp.ReturnDate = &val
	}
	return resp
}
