// Package future provides a single-assignment result container for
// asynchronous API operations.
//
// A ResultFuture is created when a request is dispatched and fulfilled
// exactly once by the transport callback. Any number of goroutines may
// wait on it with a timeout; a wait that expires only abandons that
// caller, it never cancels the outstanding request.
package future
