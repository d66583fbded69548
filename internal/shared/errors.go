package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Upload errors
	ErrTransportFailure  = fmt.Errorf("upload transport failed")
	ErrBackendRejected   = fmt.Errorf("backend rejected upload")
	ErrMalformedPayload  = fmt.Errorf("malformed upload response")
	ErrSubmitUnavailable = fmt.Errorf("submit unavailable")
	ErrStorageWrite      = fmt.Errorf("session storage write failed")

	// Intake and slideshow errors
	ErrValidationRejected = fmt.Errorf("file rejected by extension policy")
	ErrMissingSlideData   = fmt.Errorf("no slide data in session storage")
	ErrSessionNotFound    = fmt.Errorf("session entry not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidOption   = fmt.Errorf("invalid upload option")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
