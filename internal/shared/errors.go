package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuth            = fmt.Errorf("authentication failed")
	ErrUnauthorized    = fmt.Errorf("unauthorized")
	ErrSessionRequired = fmt.Errorf("user session required")
	ErrTimeout         = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrNoActiveDevice = fmt.Errorf("no active device")
	ErrRateLimited    = fmt.Errorf("rate limited")
	ErrNetwork        = fmt.Errorf("network error")
	ErrStorage        = fmt.Errorf("token storage failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// APIError is a non-2xx answer from the Web API.
//
// Kind is one of the sentinel errors above and is what [errors.Is] matches against.
type APIError struct {
	Status  int
	Reason  string
	Message string
	Kind    error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "no message"
	}
	if e.Reason != "" {
		return fmt.Sprintf("%v: status %d (%s): %s", e.Kind, e.Status, e.Reason, msg)
	}
	return fmt.Sprintf("%v: status %d: %s", e.Kind, e.Status, msg)
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

// ErrorKind maps an error onto a stable, machine-readable kind used by the presentation layer.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrMissingCredentials):
		return "auth"
	case errors.Is(err, ErrNoActiveDevice):
		return "no_active_device"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrStorage):
		return "storage"
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrMissingArgument), errors.Is(err, ErrInvalidInput):
		return "invalid_argument"
	case errors.Is(err, ErrAPIRequest):
		return "api"
	default:
		return "unknown"
	}
}

// Describe returns a short, user-facing explanation for err.
func Describe(err error) string {
	if errors.Is(err, ErrSessionRequired) {
		return "No signed-in Spotify session. Run 'spotctl auth import' with a user token."
	}

	switch ErrorKind(err) {
	case "no_active_device":
		return "Please open Spotify on your device first"
	case "auth":
		return "Failed to authenticate with Spotify. Please check your credentials."
	case "rate_limited":
		return "Spotify is rate limiting requests, try again shortly"
	case "timeout":
		return "Spotify did not answer in time"
	case "network":
		return "Could not reach Spotify"
	default:
		return err.Error()
	}
}
