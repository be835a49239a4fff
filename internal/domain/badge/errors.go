package badge

import "errors"

var (
	// ErrUnknownBadge is returned when the badge catalog has no row for a rule
	ErrUnknownBadge = errors.New("unknown badge")

	ErrInternal = errors.New("internal error")
)
