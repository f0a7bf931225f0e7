package bridge

import (
	"context"
	"time"

	"github.com/vistarmedia/api-client-go/contracts"
	"github.com/vistarmedia/api-client-go/future"
)

// Call invokes send to dispatch an asynchronous request, then blocks on the
// returned future for up to timeout. A successful result yields its value.
// An error result is returned as an *contracts.ApiError carrying the exact
// code and message the future resolved to. A wait that times out, or fails
// for any other reason, is returned as an *contracts.ApiError with code 408.
func Call[T any](send func() *future.ResultFuture[T], timeout time.Duration) (T, error) {
	fut := send()

	res, err := fut.Get(timeout)
	if err != nil {
		var zero T
		return zero, contracts.NewApiError(408, err.Error())
	}
	return unwrap(res)
}

// CallContext is like Call but also honors ctx: cancellation during the
// wait is reported the same way as a timeout. The outstanding network
// operation is not cancelled; a late fulfillment lands in a future nobody
// reads.
func CallContext[T any](ctx context.Context, send func() *future.ResultFuture[T], timeout time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fut := send()

	res, err := fut.GetContext(ctx)
	if err != nil {
		var zero T
		return zero, contracts.NewApiError(408, err.Error())
	}
	return unwrap(res)
}

func unwrap[T any](res contracts.Result[T]) (T, error) {
	if !res.IsSuccess() {
		code, message := res.Err()
		var zero T
		return zero, contracts.NewApiError(code, message)
	}
	return res.Value(), nil
}
