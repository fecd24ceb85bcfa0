package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	StatusCode() int
	// Reason is the textual part of the status line, e.g. "Not Found".
	Reason() string
	Body() []byte
}

// Transport performs the actual network I/O for the hub client. Bodies passed
// to Post, Put and Patch are serialized as JSON by the implementation.
type Transport interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Post(ctx context.Context, url string, body any, headers map[string]string) (Response, error)
	Put(ctx context.Context, url string, body any, headers map[string]string) (Response, error)
	Patch(ctx context.Context, url string, body any, headers map[string]string) (Response, error)
	Delete(ctx context.Context, url string, headers map[string]string) (Response, error)
}
