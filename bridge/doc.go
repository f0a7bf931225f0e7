// Package bridge converts the client's asynchronous request surface into
// blocking calls with a hard timeout.
//
// The asynchronous surface never fails: every transport outcome is folded
// into the Result a future resolves to. This package is the single place
// where an error Result, or an expired wait, becomes a typed error
// (*contracts.ApiError) returned to the caller.
//
// One attempt, one timeout window, no retries; retry policy belongs to
// the caller.
package bridge
