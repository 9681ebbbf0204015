package errdefs

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrAuthentication   = errors.New("authentication error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("document not found")
	ErrConflict         = errors.New("uniqueness conflict")
	ErrTransport        = errors.New("store unreachable")
	ErrPartialApproval  = errors.New("approval partially applied")
	ErrProfileFetch     = errors.New("profile fetch failed")
	ErrProfileNotFound  = errors.New("profile not found")
)
