package user

import "errors"

var (
	ErrConflict           = errors.New("user already exists")           // 409
	ErrInvalidCredentials = errors.New("invalid credentials")           // 401
	ErrUnauthenticated    = errors.New("unauthenticated")               // 401
	ErrForbidden          = errors.New("access to another user denied") // 403
	ErrNotFound           = errors.New("user not found")                // 404
)
