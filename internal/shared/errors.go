package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig   = fmt.Errorf("configuration not found")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrDuplicateTarget = fmt.Errorf("target playlist already configured")
	ErrRuleNotFound    = fmt.Errorf("playlist not configured")
	ErrNoRules         = fmt.Errorf("no playlists configured")

	// Authentication errors
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrAuthFailed         = fmt.Errorf("authentication failed")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrStateMismatch      = fmt.Errorf("authorization state mismatch")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrQuotaExceeded    = fmt.Errorf("API quota exceeded")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrVideoRejected    = fmt.Errorf("video rejected by API")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
