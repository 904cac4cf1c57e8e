package app_errors

import "errors"

var (
	// ErrUserCancelled is returned when a prompt is dismissed. It is never shown to the user.
	ErrUserCancelled = errors.New("operation cancelled by user")

	ErrConfigurationMissing = errors.New("no workspace folder configured")
	ErrPathNotFound         = errors.New("path not found")
	ErrIOFailure            = errors.New("i/o failure")
	ErrInvalidInput         = errors.New("invalid input")

	// ErrNoActiveContext is returned by document generators when there is no open file to work on.
	ErrNoActiveContext = errors.New("no active document found, please open a file first")
)

// IsCancelled reports whether err is (or wraps) a user cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrUserCancelled)
}
