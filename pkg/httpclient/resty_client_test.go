package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientSendsJSONBodyAndHeaders(t *testing.T) {
	var gotMethod, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	headers := map[string]string{"Authorization": "token"}

	for _, tc := range []struct {
		method string
		call   func() (Response, error)
	}{
		{http.MethodPost, func() (Response, error) { return client.Post(context.Background(), srv.URL, "hello", headers) }},
		{http.MethodPut, func() (Response, error) { return client.Put(context.Background(), srv.URL, "hello", headers) }},
		{http.MethodPatch, func() (Response, error) { return client.Patch(context.Background(), srv.URL, "hello", headers) }},
	} {
		resp, err := tc.call()
		if err != nil {
			t.Fatalf("%s: %v", tc.method, err)
		}
		if gotMethod != tc.method {
			t.Fatalf("expected %s, got %s", tc.method, gotMethod)
		}
		if gotAuth != "token" {
			t.Fatalf("%s: Authorization = %q", tc.method, gotAuth)
		}
		if gotType != "application/json" {
			t.Fatalf("%s: Content-Type = %q", tc.method, gotType)
		}
		if gotBody != `"hello"` {
			t.Fatalf("%s: body = %q", tc.method, gotBody)
		}
		if resp.StatusCode() != http.StatusOK || string(resp.Body()) != `{"ok":true}` {
			t.Fatalf("%s: unexpected response %d %s", tc.method, resp.StatusCode(), resp.Body())
		}
	}
}

func TestRestyClientGetAndDeleteReportReason(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.ContentLength > 0 {
			t.Errorf("%s should not carry a body", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)

	resp, err := client.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusNotFound || resp.Reason() != "Not Found" {
		t.Fatalf("unexpected status %d %q", resp.StatusCode(), resp.Reason())
	}

	if _, err := client.Delete(context.Background(), srv.URL, nil); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(methods) != 2 || methods[0] != http.MethodGet || methods[1] != http.MethodDelete {
		t.Fatalf("unexpected methods %v", methods)
	}
}

func TestReasonPhrase(t *testing.T) {
	cases := []struct {
		code   int
		status string
		want   string
	}{
		{404, "404 Not Found", "Not Found"},
		{429, "429 Too Many Requests", "Too Many Requests"},
		{412, "", "Precondition Failed"},
		{499, "499", ""},
	}
	for _, c := range cases {
		if got := ReasonPhrase(c.code, c.status); got != c.want {
			t.Fatalf("ReasonPhrase(%d, %q) = %q, want %q", c.code, c.status, got, c.want)
		}
	}
}
