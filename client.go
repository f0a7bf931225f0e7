// Package vistar provides a client for the Vistar Media ad-serving API.
//
// The client is asynchronous by default: SendAdRequest and SendProofOfPlay
// dispatch a request over the configured Transport and immediately return a
// ResultFuture that resolves in the background. GetAdResponse and
// GetProofOfPlay wrap the same dispatch in a blocking call with a hard
// timeout (10 seconds unless overridden with WithSyncTimeout).
//
// A client is safe to share across goroutines. Depending on the transport
// implementation, callbacks may run on separate goroutines or inline;
// the client is correct under both.
package vistar

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/vistarmedia/api-client-go/bridge"
	"github.com/vistarmedia/api-client-go/contracts"
	"github.com/vistarmedia/api-client-go/future"
)

const (
	getAdPath       = "/api/v1/get_ad/protobuf"
	proofOfPlayPath = "/api/v1/proof_of_play/protobuf"
)

// DefaultSyncTimeout bounds synchronous calls unless WithSyncTimeout is used.
const DefaultSyncTimeout = 10 * time.Second

// ApiClient talks to a Vistar Media API server over a Transport. Host,
// port, transport and timeout are fixed at construction.
type ApiClient struct {
	host        string
	port        int
	transport   Transport
	syncTimeout time.Duration
	logger      *slog.Logger
}

type clientConfig struct {
	syncTimeout time.Duration
	logger      *slog.Logger
}

// ClientOption configures an ApiClient.
type ClientOption func(*clientConfig)

// WithSyncTimeout sets the hard timeout for the synchronous call surface.
func WithSyncTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.syncTimeout = timeout
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// NewApiClient creates a client for the API server at host:port, sending
// requests over transport. A transport's factory (for example
// asynchttp.Connect) is usually more convenient.
func NewApiClient(host string, port int, transport Transport, opts ...ClientOption) (*ApiClient, error) {
	if host == "" {
		return nil, fmt.Errorf("host cannot be empty")
	}
	if transport == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}

	cfg := &clientConfig{
		syncTimeout: DefaultSyncTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.syncTimeout <= 0 {
		return nil, fmt.Errorf("sync timeout must be positive, got %v", cfg.syncTimeout)
	}

	return &ApiClient{
		host:        host,
		port:        port,
		transport:   transport,
		syncTimeout: cfg.syncTimeout,
		logger:      cfg.logger,
	}, nil
}

// SendAdRequest asynchronously sends an AdRequest to the API server and
// returns a future that will resolve to either the decoded AdResponse or
// an error describing what went wrong. It never blocks on the network.
func (c *ApiClient) SendAdRequest(req *contracts.AdRequest) *future.ResultFuture[*contracts.AdResponse] {
	fut := future.New[*contracts.AdResponse]()
	c.sendRequest(getAdPath, req.Marshal(), newResponseHandler(fut, decodeAdResponse))
	return fut
}

// SendProofOfPlay asynchronously registers a proof of play. The server
// echoes the proof of play back on success. This should be sent after an
// asset has been shown for at least the length booked in the
// corresponding Advertisement.
func (c *ApiClient) SendProofOfPlay(pop *contracts.ProofOfPlay) *future.ResultFuture[*contracts.ProofOfPlay] {
	fut := future.New[*contracts.ProofOfPlay]()
	c.sendRequest(proofOfPlayPath, pop.Marshal(), newResponseHandler(fut, decodeProofOfPlay))
	return fut
}

// GetAdResponse synchronously requests an ad. It returns within the
// configured sync timeout or fails with a *contracts.ApiError carrying
// code 408; response and transport errors surface as a *contracts.ApiError
// with the corresponding code and message.
func (c *ApiClient) GetAdResponse(req *contracts.AdRequest) (*contracts.AdResponse, error) {
	return bridge.Call(func() *future.ResultFuture[*contracts.AdResponse] {
		return c.SendAdRequest(req)
	}, c.syncTimeout)
}

// GetAdResponseContext is like GetAdResponse but also honors ctx while
// waiting. Cancellation surfaces as a *contracts.ApiError with code 408.
func (c *ApiClient) GetAdResponseContext(ctx context.Context, req *contracts.AdRequest) (*contracts.AdResponse, error) {
	return bridge.CallContext(ctx, func() *future.ResultFuture[*contracts.AdResponse] {
		return c.SendAdRequest(req)
	}, c.syncTimeout)
}

// GetProofOfPlay synchronously registers a proof of play, with the same
// timeout and error behavior as GetAdResponse.
func (c *ApiClient) GetProofOfPlay(pop *contracts.ProofOfPlay) (*contracts.ProofOfPlay, error) {
	return bridge.Call(func() *future.ResultFuture[*contracts.ProofOfPlay] {
		return c.SendProofOfPlay(pop)
	}, c.syncTimeout)
}

// GetProofOfPlayContext is like GetProofOfPlay but also honors ctx while
// waiting.
func (c *ApiClient) GetProofOfPlayContext(ctx context.Context, pop *contracts.ProofOfPlay) (*contracts.ProofOfPlay, error) {
	return bridge.CallContext(ctx, func() *future.ResultFuture[*contracts.ProofOfPlay] {
		return c.SendProofOfPlay(pop)
	}, c.syncTimeout)
}

// SyncTimeout returns the timeout applied to synchronous calls.
func (c *ApiClient) SyncTimeout() time.Duration {
	return c.syncTimeout
}

// sendRequest kicks off the transport operation for path. Results are
// routed to handler exclusively: a URL composition failure or a
// synchronous transport error goes through OnThrowable, so the future
// bound to handler always eventually resolves.
func (c *ApiClient) sendRequest(path string, body []byte, handler ResponseHandler) {
	requestID := uuid.NewString()

	endpoint, err := c.buildURL(path)
	if err != nil {
		c.logger.Debug("request dispatch failed",
			"requestId", requestID, "path", path, "error", err)
		handler.OnThrowable(err)
		return
	}

	c.logger.Debug("dispatching request",
		"requestId", requestID, "url", endpoint, "bodyBytes", len(body))

	if err := c.transport.Post(endpoint, body, handler); err != nil {
		c.logger.Debug("transport post failed",
			"requestId", requestID, "url", endpoint, "error", err)
		handler.OnThrowable(err)
	}
}

// buildURL resolves path against the configured host and port. This only
// fails when the client was built with a host that is not a valid URL
// host, for example one containing a slash or a stray colon.
func (c *ApiClient) buildURL(path string) (string, error) {
	raw := fmt.Sprintf("http://%s:%d%s", c.host, c.port, path)
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", fmt.Errorf("invalid endpoint url %q: %w", raw, err)
	}
	return raw, nil
}
