package murmur_errors

import "errors"

// Common errors
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyExists      = errors.New("already exists")
	ErrRateLimited        = errors.New("rate limited")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Relay delivery errors
var (
	ErrSendBufferFull = errors.New("send buffer full")
	ErrPeerClosed     = errors.New("peer closed")
)
