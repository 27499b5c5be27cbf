package service

import "errors"

// Domain error kinds. Services wrap these with fmt.Errorf("%w: ...") for
// detail; handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrExpired    = errors.New("link expired or inactive")
	ErrConflict   = errors.New("conflicting concurrent update")
)
