package domain

import "errors"

// Domain errors
var (
	ErrInvalidOwnerID  = errors.New("invalid owner id")
	ErrInvalidBandName = errors.New("band name is required")
	ErrInvalidGigTitle = errors.New("gig title is required")
	ErrInvalidGigType  = errors.New("invalid gig type")
)
