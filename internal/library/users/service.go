package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"libraryhub-backend/internal/platform/auth"
)

// ===== Error model =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// validate runs on DTOs a second time at the service boundary so the rules
// hold even for callers that bypass gin binding.
var validate = validator.New()

const defaultRole = "member"

// ===== Service =====

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (UserResponse, error) {
	if err := validate.Struct(in); err != nil {
		return UserResponse{}, ErrInvalid("username, valid email and password are required")
	}

	exists, err := s.store.UsernameExists(ctx, in.Username)
	if err != nil {
		return UserResponse{}, err
	}
	if exists {
		return UserResponse{}, ErrConflict("username already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return UserResponse{}, err
	}

	name := in.Username
	if in.Name != nil && *in.Name != "" {
		name = *in.Name
	}

	id, err := s.store.Insert(ctx, in.Username, in.Email, name, hash, defaultRole, time.Now().UTC())
	if err != nil {
		return UserResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return *out, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (UserResponse, error) {
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserResponse{}, ErrNotFound("user not found")
		}
		return UserResponse{}, err
	}
	return *out, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]UserResponse, error) {
	return s.store.List(ctx)
}

func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateUserRequest) (UserResponse, error) {
	if err := validate.Struct(in); err != nil {
		return UserResponse{}, ErrInvalid("email must be a valid address")
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserResponse{}, ErrNotFound("user not found")
		}
		return UserResponse{}, err
	}

	if err := s.store.Update(ctx, id, in); err != nil {
		return UserResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return *out, nil
}

// DeleteUser removes the user row only. Borrowing history is kept on purpose:
// loan rows carry their own book snapshot and stay meaningful as records.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound("user not found")
	}
	return nil
}
