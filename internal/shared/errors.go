package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Session and access errors
	ErrUnauthorized   = fmt.Errorf("unauthorized")
	ErrSessionExpired = fmt.Errorf("session expired")

	// Verification gate errors
	ErrVerificationFailed = fmt.Errorf("verification failed")

	// Catalog and upstream errors
	ErrAPIRequest          = fmt.Errorf("API request failed")
	ErrUpstreamUnavailable = fmt.Errorf("upstream unavailable")
	ErrNotFound            = fmt.Errorf("not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
