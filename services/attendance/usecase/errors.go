package usecase

import "errors"

var (
	ErrEmptyBatch         = errors.New("bulk request has no attendance records")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
