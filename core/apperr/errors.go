package apperr

import "errors"

// Failure categories shared across the workflow engine, catalog service and
// HTTP layer. Handlers translate these to status codes with errors.Is.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal error")
)
