// Package iothub is a thin client for the IoT Hub device-management REST API.
//
// Every call is one synchronous request through an injected transport. There
// is no retry, caching or connection state here; timeouts and cancellation
// belong to the transport and the context passed in.
//
// A Client is immutable after construction. It does not synchronize access to
// the transport, so share one across goroutines only if the transport allows it.
package iothub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/samvad-hq/iothub-client/pkg/httpclient"
)

const (
	// APIVersion is sent as the api-version query parameter on every request.
	APIVersion = "2018-06-30"

	hostSuffix          = "azure-devices.net"
	authorizationHeader = "Authorization"
)

// errorStatusCodes is the closed set of statuses treated as failures. Any
// other code, including unlisted 3xx and 5xx, is treated as success and its
// body decoded as JSON.
var errorStatusCodes = map[int]struct{}{
	http.StatusBadRequest:          {},
	http.StatusUnauthorized:        {},
	http.StatusForbidden:           {},
	http.StatusNotFound:            {},
	http.StatusPreconditionFailed:  {},
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
}

// IsErrorStatus reports whether code belongs to the hub error set.
func IsErrorStatus(code int) bool {
	_, ok := errorStatusCodes[code]
	return ok
}

// Client issues authenticated requests against a single hub.
type Client struct {
	transport httpclient.Transport
	baseURL   string
	headers   map[string]string
	log       Logger
}

// New builds a client for https://{hubName}.azure-devices.net. The transport
// is borrowed and never closed by the client. No network I/O happens here.
func New(transport httpclient.Transport, hubName, sasToken string, log Logger) (*Client, error) {
	return NewWithBaseURL(transport, fmt.Sprintf("https://%s.%s", hubName, hostSuffix), sasToken, log)
}

// NewWithBaseURL builds a client against an explicit base URL.
func NewWithBaseURL(transport httpclient.Transport, baseURL, sasToken string, log Logger) (*Client, error) {
	if isNilTransport(transport) {
		return nil, &ConfigurationError{Message: "transport is required"}
	}
	return &Client{
		transport: transport,
		baseURL:   strings.TrimRight(baseURL, "/"),
		headers:   map[string]string{authorizationHeader: sasToken},
		log:       ensureLogger(log),
	}, nil
}

func isNilTransport(t httpclient.Transport) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// BaseURL returns the hub base URL requests are built against.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.transport.Get(ctx, c.url(path), c.headers)
	return c.handle(http.MethodGet, path, resp, err, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	resp, err := c.transport.Post(ctx, c.url(path), payload, c.headers)
	return c.handle(http.MethodPost, path, resp, err, out)
}

func (c *Client) put(ctx context.Context, path string, payload, out any) error {
	resp, err := c.transport.Put(ctx, c.url(path), payload, c.headers)
	return c.handle(http.MethodPut, path, resp, err, out)
}

func (c *Client) patch(ctx context.Context, path string, payload, out any) error {
	resp, err := c.transport.Patch(ctx, c.url(path), payload, c.headers)
	return c.handle(http.MethodPatch, path, resp, err, out)
}

// delete still decodes the body so a non-JSON reply on an unlisted status
// surfaces as a ParseError; the decoded value is dropped.
func (c *Client) delete(ctx context.Context, path string) error {
	var discard any
	resp, err := c.transport.Delete(ctx, c.url(path), c.headers)
	return c.handle(http.MethodDelete, path, resp, err, &discard)
}

// handle applies the status policy. A nil out discards the body undecoded.
func (c *Client) handle(method, path string, resp httpclient.Response, err error, out any) error {
	if err != nil {
		c.log.WarnObj("hub request failed", "iothub_request", map[string]any{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return &TransportError{Method: method, URL: c.url(path), Err: err}
	}
	if resp == nil {
		return &TransportError{Method: method, URL: c.url(path), Err: fmt.Errorf("transport returned no response")}
	}

	code := resp.StatusCode()
	c.log.DebugObj("hub request completed", "iothub_request", map[string]any{
		"method": method,
		"path":   path,
		"status": code,
	})

	if IsErrorStatus(code) {
		return &RemoteError{StatusCode: code, Reason: resp.Reason()}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &ParseError{StatusCode: code, Err: err}
	}
	return nil
}
