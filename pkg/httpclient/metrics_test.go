package httpclient

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stubResponse struct{ code int }

func (s stubResponse) StatusCode() int { return s.code }
func (s stubResponse) Reason() string  { return "" }
func (s stubResponse) Body() []byte    { return nil }

type stubTransport struct {
	code int
	err  error
}

func (s stubTransport) reply() (Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return stubResponse{code: s.code}, nil
}

func (s stubTransport) Get(context.Context, string, map[string]string) (Response, error) {
	return s.reply()
}
func (s stubTransport) Post(context.Context, string, any, map[string]string) (Response, error) {
	return s.reply()
}
func (s stubTransport) Put(context.Context, string, any, map[string]string) (Response, error) {
	return s.reply()
}
func (s stubTransport) Patch(context.Context, string, any, map[string]string) (Response, error) {
	return s.reply()
}
func (s stubTransport) Delete(context.Context, string, map[string]string) (Response, error) {
	return s.reply()
}

func TestInstrumentedTransportCountsByStatus(t *testing.T) {
	tr := NewInstrumentedTransport(stubTransport{code: 200})
	ctx := context.Background()

	if _, err := tr.Get(ctx, "u", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := tr.Get(ctx, "u", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := tr.Patch(ctx, "u", map[string]any{}, nil); err != nil {
		t.Fatalf("Patch: %v", err)
	}

	if got := testutil.ToFloat64(tr.requests.WithLabelValues("GET", "200")); got != 2 {
		t.Fatalf("GET 200 count = %v", got)
	}
	if got := testutil.ToFloat64(tr.requests.WithLabelValues("PATCH", "200")); got != 1 {
		t.Fatalf("PATCH 200 count = %v", got)
	}
	if len(tr.Collectors()) != 2 {
		t.Fatalf("expected 2 collectors")
	}
}

func TestInstrumentedTransportCountsErrors(t *testing.T) {
	tr := NewInstrumentedTransport(stubTransport{err: errors.New("dial failed")})
	if _, err := tr.Delete(context.Background(), "u", nil); err == nil {
		t.Fatalf("expected transport error to pass through")
	}
	if got := testutil.ToFloat64(tr.requests.WithLabelValues("DELETE", "error")); got != 1 {
		t.Fatalf("DELETE error count = %v", got)
	}
}
