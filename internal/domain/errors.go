package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidQuestion = errors.New("invalid question")
	ErrInvalidStyle    = errors.New("invalid response style")
	ErrQuotaExceeded   = errors.New("quota exceeded")
	ErrProviderFailure = errors.New("provider failure")
	ErrRequestInFlight = errors.New("request already in flight")
	ErrAlreadyAnswered = errors.New("already answered today")
	ErrInvalidAnswer   = errors.New("invalid answer option")
	ErrInvalidSetting  = errors.New("invalid setting")
	ErrInvalidIdentity = errors.New("invalid identifier")
)
