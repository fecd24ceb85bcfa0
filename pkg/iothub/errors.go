package iothub

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a client that cannot be built from its inputs.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "iothub configuration: " + e.Message
}

// RemoteError is returned when the hub answers with a status code from the
// known error set. Auth failures, missing devices and throttling all surface
// as this one kind; inspect StatusCode to tell them apart.
type RemoteError struct {
	StatusCode int
	Reason     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.StatusCode, e.Reason)
}

// ParseError wraps a JSON decode failure on a response that was not flagged
// as an error, e.g. a 204 or an unlisted 503 with no body.
type ParseError struct {
	StatusCode int
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode response (status %d): %v", e.StatusCode, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TransportError wraps a failure raised by the transport before any status
// code was received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRemoteError reports whether err carries a RemoteError.
func IsRemoteError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// IsParseError reports whether err carries a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// StatusCode returns the hub status code carried by a RemoteError, or 0.
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
