package report

import "errors"

var (
	// ErrNotFound is returned when the report doesn't exist
	ErrNotFound = errors.New("report not found")

	// ErrAlreadyConfirmed is returned on a duplicate community confirmation
	ErrAlreadyConfirmed = errors.New("already verified")

	// ErrMustFollow is returned when a non-follower tries to confirm
	ErrMustFollow = errors.New("must follow to verify")

	// ErrPhotoUpload is returned when the photo cannot be stored
	ErrPhotoUpload = errors.New("photo upload failed")

	ErrInternal = errors.New("internal error")
)
