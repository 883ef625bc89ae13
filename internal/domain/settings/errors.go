package settings

import "errors"

// ErrInvalidInput indicates an out-of-range setting.
var ErrInvalidInput = errors.New("invalid settings input")
