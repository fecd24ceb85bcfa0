package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Transport interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.execute(ctx, http.MethodGet, url, nil, headers)
}

// Post performs an HTTP POST request with a JSON body.
func (r *RestyClient) Post(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return r.executeJSON(ctx, http.MethodPost, url, body, headers)
}

// Put performs an HTTP PUT request with a JSON body.
func (r *RestyClient) Put(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return r.executeJSON(ctx, http.MethodPut, url, body, headers)
}

// Patch performs an HTTP PATCH request with a JSON body.
func (r *RestyClient) Patch(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return r.executeJSON(ctx, http.MethodPatch, url, body, headers)
}

// Delete performs an HTTP DELETE request.
func (r *RestyClient) Delete(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return r.execute(ctx, http.MethodDelete, url, nil, headers)
}

// executeJSON marshals body up front so every payload goes out as JSON,
// including bare strings which resty would otherwise send as text.
func (r *RestyClient) executeJSON(ctx context.Context, method, url string, body any, headers map[string]string) (Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	return r.execute(ctx, method, url, payload, headers)
}

func (r *RestyClient) execute(ctx context.Context, method, url string, payload []byte, headers map[string]string) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if payload != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(payload)
	}
	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Reason() string  { return ReasonPhrase(r.resp.StatusCode(), r.resp.Status()) }

// ReasonPhrase strips the numeric code from a status line such as
// "404 Not Found". An empty remainder falls back to the standard text.
func ReasonPhrase(code int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(status), strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}
	return reason
}
