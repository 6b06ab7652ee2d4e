package usecase

import "errors"

// ErrPersistence wraps unexpected storage failures so callers can tell them
// apart from domain rule violations. The cause is attached with %w wrapping.
var ErrPersistence = errors.New("usecase: persistence error")
