// Package common defines shared constants and sentinel errors used across
// the ccat server and client. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	// Input errors. Wrap with a human readable reason:
	//
	//	fmt.Errorf("%w: file size must be less than 5MB", common.ErrValidation)
	ErrValidation = errors.New("validation error")

	// Backend failures. Storage errors come from the object store,
	// persistence errors from the metadata database.
	ErrUploadFailed = errors.New("upload failed")
	ErrStorage      = errors.New("storage error")
	ErrPersistence  = errors.New("persistence error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
