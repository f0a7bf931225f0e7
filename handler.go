package vistar

import (
	"net/http"

	"github.com/vistarmedia/api-client-go/contracts"
	"github.com/vistarmedia/api-client-go/future"
)

// responseHandler translates raw transport signals into a Result and
// fulfills the future bound at dispatch time. Every path ends in exactly
// one Fulfill, so callers never need transport-specific error handling:
//
//	200 + decodable body    -> Success(value)
//	200 + undecodable body  -> Error(500, decode failure)
//	non-200                 -> Error(status, message) verbatim
//	transport failure       -> Error(400, failure text)
type responseHandler[T any] struct {
	fut    *future.ResultFuture[T]
	decode func([]byte) (T, error)
}

func newResponseHandler[T any](fut *future.ResultFuture[T], decode func([]byte) (T, error)) *responseHandler[T] {
	return &responseHandler[T]{fut: fut, decode: decode}
}

// OnResponse implements ResponseHandler.
func (h *responseHandler[T]) OnResponse(statusCode int, message string, body []byte) {
	if statusCode != http.StatusOK {
		h.fail(statusCode, message)
		return
	}

	value, err := h.decode(body)
	if err != nil {
		h.fail(http.StatusInternalServerError, err.Error())
		return
	}
	h.fut.Fulfill(contracts.OK(value))
}

// OnThrowable implements ResponseHandler.
func (h *responseHandler[T]) OnThrowable(err error) {
	h.fail(http.StatusBadRequest, err.Error())
}

func (h *responseHandler[T]) fail(code int, message string) {
	h.fut.Fulfill(contracts.Failure[T](code, message))
}

func decodeAdResponse(body []byte) (*contracts.AdResponse, error) {
	resp := new(contracts.AdResponse)
	if err := resp.Unmarshal(body); err != nil {
		return nil, err
	}
	return resp, nil
}

func decodeProofOfPlay(body []byte) (*contracts.ProofOfPlay, error) {
	pop := new(contracts.ProofOfPlay)
	if err := pop.Unmarshal(body); err != nil {
		return nil, err
	}
	return pop, nil
}
