package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/agenttrace/webservice/internal/pkg/telemetry"
)

// UpstreamResponse holds the result of one upstream call
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// UpstreamClient performs GET requests against the configured upstream.
// Trace context is propagated and each call is recorded as a client span.
type UpstreamClient struct {
	url        string
	httpClient *http.Client
}

// NewUpstreamClient creates a client for url that traces through tp
func NewUpstreamClient(url string, tp trace.TracerProvider) *UpstreamClient {
	return &UpstreamClient{
		url: url,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(
				http.DefaultTransport,
				otelhttp.WithTracerProvider(tp),
				otelhttp.WithPropagators(telemetry.Propagator()),
			),
		},
	}
}

// URL returns the upstream target
func (c *UpstreamClient) URL() string {
	return c.url
}

// Get issues exactly one GET to the upstream and reads the whole body
func (c *UpstreamClient) Get(ctx context.Context) (*UpstreamResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream body: %w", err)
	}

	return &UpstreamResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
