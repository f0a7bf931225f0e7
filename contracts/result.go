package contracts

// Result holds the outcome of a single API operation: either a decoded
// response value or an error code/message pair describing what went wrong
// while obtaining it. Exactly one of the two cases is ever populated.
//
// The zero Result is the error case with code 0; callers should only build
// values through OK and Failure.
type Result[T any] struct {
	value   T
	code    int
	message string
	success bool
}

// OK returns a successful Result carrying value.
func OK[T any](value T) Result[T] {
	return Result[T]{value: value, success: true}
}

// Failure returns an error Result carrying an HTTP-style status code and a
// human-readable message.
func Failure[T any](code int, message string) Result[T] {
	return Result[T]{code: code, message: message}
}

// IsSuccess reports whether the result holds a value rather than an error.
func (r Result[T]) IsSuccess() bool {
	return r.success
}

// Value returns the successful value. It is the zero value of T when
// IsSuccess is false.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the error code and message. Both are zero when IsSuccess
// is true.
func (r Result[T]) Err() (code int, message string) {
	return r.code, r.message
}
