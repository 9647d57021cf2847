package domain

import "errors"

var (
	ErrUnauthenticated   = errors.New("missing voter identity")
	ErrForbidden         = errors.New("role is not permitted for this operation")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrPositionNotFound  = errors.New("position not found")
	ErrPositionMismatch  = errors.New("candidate does not belong to the specified position")
	ErrAlreadyVoted      = errors.New("voter has already voted for this position")
	ErrPositionExists    = errors.New("position already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnavailable       = errors.New("storage unavailable")
)
