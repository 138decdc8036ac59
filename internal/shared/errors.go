package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionExpired   = fmt.Errorf("session expired")
	ErrSignInFailed     = fmt.Errorf("login failed")
	ErrSignUpFailed     = fmt.Errorf("registration failed")
	ErrGoogleFailed     = fmt.Errorf("google login failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrListURLs           = fmt.Errorf("failed to fetch URLs")
	ErrShortenURL         = fmt.Errorf("failed to shorten URL")
	ErrDeleteURL          = fmt.Errorf("failed to delete URL")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
