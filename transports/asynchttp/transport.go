// Package asynchttp implements vistar.Transport over net/http.
//
// Each Post runs the HTTP round trip on its own goroutine, so the caller
// never blocks on the network and callbacks fire with true parallelism.
// The transport itself keeps no per-request state; concurrency is bounded
// only by the underlying http.Client.
package asynchttp

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	vistar "github.com/vistarmedia/api-client-go"
)

const defaultRequestTimeout = 30 * time.Second

// Transport posts binary request bodies to absolute URLs and reports the
// outcome through the handler supplied per request.
type Transport struct {
	client *http.Client
}

// TransportConfig holds configuration for the transport.
type TransportConfig struct {
	Client         *http.Client
	RequestTimeout time.Duration
}

// TransportOption configures the transport.
type TransportOption func(*TransportConfig)

// WithHTTPClient supplies a custom http.Client, for example one with a
// tuned connection pool or an instrumented RoundTripper. Its timeout is
// left untouched.
func WithHTTPClient(client *http.Client) TransportOption {
	return func(cfg *TransportConfig) {
		cfg.Client = client
	}
}

// WithRequestTimeout bounds a single HTTP round trip, including reading
// the response body. Ignored when WithHTTPClient is also given.
func WithRequestTimeout(timeout time.Duration) TransportOption {
	return func(cfg *TransportConfig) {
		cfg.RequestTimeout = timeout
	}
}

// NewTransport creates an asynchronous HTTP transport.
func NewTransport(options ...TransportOption) *Transport {
	cfg := &TransportConfig{
		RequestTimeout: defaultRequestTimeout,
	}
	for _, opt := range options {
		opt(cfg)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Transport{client: client}
}

// Connect creates an ApiClient for the API server at host:port backed by
// an asynchronous HTTP transport with default settings.
func Connect(host string, port int, opts ...vistar.ClientOption) (*vistar.ApiClient, error) {
	return vistar.NewApiClient(host, port, NewTransport(), opts...)
}

// Post implements vistar.Transport. It returns an error synchronously only
// when the request cannot be constructed; once the round trip is started,
// the outcome is delivered through handler exactly once.
func (t *Transport) Post(url string, body []byte, handler vistar.ResponseHandler) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	go func() {
		resp, err := t.client.Do(req)
		if err != nil {
			handler.OnThrowable(err)
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			handler.OnThrowable(fmt.Errorf("failed to read response body: %w", err))
			return
		}
		handler.OnResponse(resp.StatusCode, http.StatusText(resp.StatusCode), respBody)
	}()

	return nil
}
