package recurrence

import "errors"

var (
	// ErrConfigNotFound indicates the recurrence config doesn't exist.
	ErrConfigNotFound = errors.New("recurrence config not found")
	// ErrBuiltInProtected indicates a built-in config cannot be renamed or deleted.
	ErrBuiltInProtected = errors.New("built-in recurrence config cannot be renamed or deleted")
	// ErrDuplicateName indicates another config already uses the name.
	ErrDuplicateName = errors.New("recurrence config name already in use")
	// ErrInvalidInput indicates invalid recurrence input.
	ErrInvalidInput = errors.New("invalid recurrence input")
)
