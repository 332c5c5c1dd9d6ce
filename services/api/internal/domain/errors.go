package domain

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrPreferencesNotFound = errors.New("preferences not found")
	ErrCityRequired        = errors.New("city required")
	ErrProfileIDRequired   = errors.New("profile id required")
	ErrUnknownSegment      = errors.New("unknown segment id")
	ErrInvalidSort         = errors.New("invalid sort key")
	ErrInvalidID           = errors.New("invalid id")
)
