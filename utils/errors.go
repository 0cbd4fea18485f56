// utils/errors.go
package utils

import "errors"

var (
	ErrNoSession    = errors.New("authentication required: no active session")
	ErrUnauthorized = errors.New("unauthorized access")
)
