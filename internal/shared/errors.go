package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Upload validation errors
	ErrFileTooLarge      = fmt.Errorf("file too large")
	ErrUnsupportedFormat = fmt.Errorf("unsupported format")
	ErrTooLong           = fmt.Errorf("audio too long")

	// Session errors
	ErrQuotaExceeded = fmt.Errorf("daily limit reached")
	ErrBusy          = fmt.Errorf("analysis already in progress")
	ErrSessionClosed = fmt.Errorf("session closed")
	ErrNoResult      = fmt.Errorf("no analysis result")

	// Gateway and storage errors
	ErrInvalidResponse    = fmt.Errorf("failed to get analysis from AI model")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrStorage            = fmt.Errorf("storage error")
	ErrNotFound           = fmt.Errorf("not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
