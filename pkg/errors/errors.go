package errors

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrNilProduct         = errors.New("product is nil")
	ErrNilCategory        = errors.New("category is nil")
	ErrNilUser            = errors.New("user is nil")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)
