package service

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials or unauthorized access")
	ErrTokenIssue         = errors.New("cannot issue token")
	ErrNoData             = errors.New("no data found")
	ErrQueryFailed        = errors.New("query failed")
)
