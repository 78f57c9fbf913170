package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error is the application error carried from services and repositories up
// to the HTTP layer, where it is rendered once into the response envelope.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an application error with an explicit status and code.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "INVALID_REQUEST", Message: message}
}

func NotFound(entity string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: entity + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Code: "CONFLICT", Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: message}
}

// InvalidReference reports a foreign key target that does not exist. The
// mutation it guards must not have been applied.
func InvalidReference(field string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "INVALID_REFERENCE", Message: "referenced " + field + " does not exist"}
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "internal server error", Err: err}
}

// Postgres error codes translated at the boundary.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// FromDB translates driver-level errors into the application taxonomy:
// missing rows become 404, unique violations 409, foreign key violations
// 400, anything else 500. Errors that are already *Error pass through.
func FromDB(err error, entity string) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound(entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &Error{Status: http.StatusConflict, Code: "DUPLICATE", Message: entity + " already exists", Err: err}
		case pgForeignKeyViolation:
			return &Error{Status: http.StatusBadRequest, Code: "INVALID_REFERENCE", Message: "referenced row does not exist", Err: err}
		}
	}

	return Internal(err)
}

// Get extracts an *Error from err, wrapping unknown errors as internal.
func Get(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
