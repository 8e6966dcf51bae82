package domain

import "errors"

var (
	// ErrInvalidProduct matches every product construction failure.
	ErrInvalidProduct  = errors.New("invalid product")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPage     = errors.New("invalid pagination request")
)

// ValidationError reports an attribute outside business policy (price, weight).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidProduct }

// RequiredFieldError reports a missing mandatory attribute.
type RequiredFieldError struct {
	Field   string
	Message string
}

func (e *RequiredFieldError) Error() string { return e.Message }

func (e *RequiredFieldError) Is(target error) bool { return target == ErrInvalidProduct }

// PageError reports a pagination request outside the accepted range.
type PageError struct {
	Message string
}

func (e *PageError) Error() string { return e.Message }

func (e *PageError) Is(target error) bool { return target == ErrInvalidPage }
