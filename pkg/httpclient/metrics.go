package httpclient

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentedTransport wraps a Transport and records request counts and
// latency per method and status code.
type InstrumentedTransport struct {
	next     Transport
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewInstrumentedTransport decorates next with Prometheus collectors.
// Register the collectors returned by Collectors before scraping.
func NewInstrumentedTransport(next Transport) *InstrumentedTransport {
	return &InstrumentedTransport{
		next: next,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iothub_client_requests_total",
			Help: "Hub API requests by method and status code",
		}, []string{"method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iothub_client_request_duration_seconds",
			Help:    "Hub API request latency by method",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Collectors exposes the transport collectors for registration.
func (t *InstrumentedTransport) Collectors() []prometheus.Collector {
	return []prometheus.Collector{t.requests, t.latency}
}

func (t *InstrumentedTransport) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return t.observe(http.MethodGet, func() (Response, error) { return t.next.Get(ctx, url, headers) })
}

func (t *InstrumentedTransport) Post(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return t.observe(http.MethodPost, func() (Response, error) { return t.next.Post(ctx, url, body, headers) })
}

func (t *InstrumentedTransport) Put(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return t.observe(http.MethodPut, func() (Response, error) { return t.next.Put(ctx, url, body, headers) })
}

func (t *InstrumentedTransport) Patch(ctx context.Context, url string, body any, headers map[string]string) (Response, error) {
	return t.observe(http.MethodPatch, func() (Response, error) { return t.next.Patch(ctx, url, body, headers) })
}

func (t *InstrumentedTransport) Delete(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return t.observe(http.MethodDelete, func() (Response, error) { return t.next.Delete(ctx, url, headers) })
}

func (t *InstrumentedTransport) observe(method string, call func() (Response, error)) (Response, error) {
	start := time.Now()
	resp, err := call()
	t.latency.WithLabelValues(method).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode())
	}
	t.requests.WithLabelValues(method, status).Inc()
	return resp, err
}
