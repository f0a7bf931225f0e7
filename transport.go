package vistar

// ResponseHandler receives the outcome of a single transport operation.
// The transport invokes exactly one of the two methods, exactly once:
// OnResponse once an HTTP response was obtained, OnThrowable for any
// failure raised before that.
type ResponseHandler interface {
	// OnResponse delivers the HTTP status code, the status message and the
	// fully-read response body.
	OnResponse(statusCode int, message string, body []byte)

	// OnThrowable delivers a transport-level failure (connection refused,
	// malformed URL, aborted request).
	OnThrowable(err error)
}

// Transport performs the actual network POST against the ad servers and
// routes the outcome to a ResponseHandler. Post may return an error
// synchronously on immediate setup failure; otherwise it guarantees one
// eventual handler invocation. Implementations may complete the handler
// on another goroutine or inline before Post returns.
type Transport interface {
	Post(url string, body []byte, handler ResponseHandler) error
}
