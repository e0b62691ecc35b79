package clients

import "errors"

var (
	ErrNotFound     = errors.New("client not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmailTaken   = errors.New("email already registered")
)
