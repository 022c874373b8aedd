package analysis

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrConfiguration     = errors.New("analysis not configured")
	ErrUpstream          = errors.New("analysis upstream failure")
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// ConfigurationError means no AI client is available. Callers treat it as a
// reason to skip analysis, not as a failure.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("analysis configuration error: %s", e.Message)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// UpstreamError represents a failed call to the model provider
type UpstreamError struct {
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// MalformedResponseError represents a completion that is not a JSON object
type MalformedResponseError struct {
	Message string
	// Response is a truncated copy of the cleaned completion.
	Response string
	Cause    error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
