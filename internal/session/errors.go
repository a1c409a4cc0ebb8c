package session

import "errors"

// ErrUnknownCategory is returned when an intent names a category the loaded
// repository does not have.
var ErrUnknownCategory = errors.New("unknown category")
