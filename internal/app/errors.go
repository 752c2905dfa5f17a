package app

import "errors"

// ErrValidationFailed is returned by a one-shot run when at least one
// content file was rejected.
var ErrValidationFailed = errors.New("content validation failed")
