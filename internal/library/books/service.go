package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ===== Error model =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		default:
			return 500
		}
	}
	return 500
}

// ===== Service =====

// Service is the catalog side of books: plain CRUD, no availability logic.
// books.available belongs to the borrowing engine; nothing here writes it.
type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

func (s *Service) CreateBook(ctx context.Context, in CreateBookRequest) (BookResponse, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" ||
		strings.TrimSpace(in.Category) == "" {
		return BookResponse{}, ErrInvalid("title, author, category are required")
	}

	id, err := s.store.Insert(ctx, in)
	if err != nil {
		return BookResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return BookResponse{}, err
	}
	return *out, nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (BookResponse, error) {
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BookResponse{}, ErrNotFound("book not found")
		}
		return BookResponse{}, err
	}
	return *out, nil
}

func (s *Service) ListBooks(ctx context.Context, f ListQuery) ([]BookResponse, error) {
	return s.store.List(ctx, f)
}

func (s *Service) UpdateBook(ctx context.Context, id int64, in UpdateBookRequest) (BookResponse, error) {
	// existence first: a no-change UPDATE also affects zero rows
	if _, err := s.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BookResponse{}, ErrNotFound("book not found")
		}
		return BookResponse{}, err
	}

	if err := s.store.Update(ctx, id, in); err != nil {
		return BookResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return BookResponse{}, err
	}
	return *out, nil
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound("book not found")
	}
	return nil
}
