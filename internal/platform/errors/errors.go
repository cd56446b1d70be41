package apperrors

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrAmbiguousID   = errors.New("ambiguous id")
	ErrMalformedData = errors.New("malformed stored data")
)
