package action

import "errors"

var (
	// ErrInternal is returned when a ledger write or read fails
	ErrInternal = errors.New("internal error")
)
