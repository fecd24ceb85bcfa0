package iothub

import (
	"errors"
	"fmt"
	"testing"
)

func TestRemoteErrorMessage(t *testing.T) {
	err := &RemoteError{StatusCode: 404, Reason: "Not Found"}
	if err.Error() != "Error 404: Not Found" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestErrorHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("get twin: %w", &RemoteError{StatusCode: 401, Reason: "Unauthorized"})
	if !IsRemoteError(wrapped) || StatusCode(wrapped) != 401 {
		t.Fatalf("wrapped RemoteError not detected")
	}

	parseErr := fmt.Errorf("list: %w", &ParseError{StatusCode: 204, Err: errors.New("unexpected end of JSON input")})
	if !IsParseError(parseErr) || IsRemoteError(parseErr) {
		t.Fatalf("wrapped ParseError misclassified")
	}
	if StatusCode(parseErr) != 0 {
		t.Fatalf("ParseError should carry no remote status")
	}

	if !IsConfigurationError(&ConfigurationError{Message: "transport is required"}) {
		t.Fatalf("ConfigurationError not detected")
	}
}
