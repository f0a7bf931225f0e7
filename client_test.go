package vistar

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vistarmedia/api-client-go/contracts"
)

// mockTransport asserts on dispatch arguments and can fail synchronously.
type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Post(url string, body []byte, handler ResponseHandler) error {
	args := m.Called(url, body, handler)
	return args.Error(0)
}

// scriptedTransport records dispatched requests and lets tests deliver the
// callback later, simulating an asynchronous remote server.
type scriptedTransport struct {
	mu    sync.Mutex
	posts []postCall
}

type postCall struct {
	url     string
	body    []byte
	handler ResponseHandler
}

func (s *scriptedTransport) Post(url string, body []byte, handler ResponseHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, postCall{url: url, body: body, handler: handler})
	return nil
}

func (s *scriptedTransport) post(t *testing.T, i int) postCall {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.Greater(t, len(s.posts), i, "no post recorded at index %d", i)
	return s.posts[i]
}

// inlineTransport completes the callback before Post returns, simulating a
// transport that executes serially under the hood.
type inlineTransport struct {
	statusCode int
	message    string
	body       []byte
}

func (s *inlineTransport) Post(url string, body []byte, handler ResponseHandler) error {
	handler.OnResponse(s.statusCode, s.message, s.body)
	return nil
}

// silentTransport accepts requests and never invokes the callback.
type silentTransport struct{}

func (silentTransport) Post(url string, body []byte, handler ResponseHandler) error {
	return nil
}

func newTestClient(t *testing.T, transport Transport, opts ...ClientOption) *ApiClient {
	t.Helper()
	client, err := NewApiClient("example.com", 80, transport, opts...)
	require.NoError(t, err)
	return client
}

func TestNewApiClient(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		client, err := NewApiClient("example.com", 80, &scriptedTransport{})

		assert.NoError(t, err)
		assert.Equal(t, DefaultSyncTimeout, client.SyncTimeout())
	})

	t.Run("rejects empty host", func(t *testing.T) {
		_, err := NewApiClient("", 80, &scriptedTransport{})
		assert.Error(t, err)
	})

	t.Run("rejects nil transport", func(t *testing.T) {
		_, err := NewApiClient("example.com", 80, nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive sync timeout", func(t *testing.T) {
		_, err := NewApiClient("example.com", 80, &scriptedTransport{}, WithSyncTimeout(0))
		assert.Error(t, err)
	})
}

func TestSendAdRequest(t *testing.T) {
	t.Run("returns a pending future before any callback fires", func(t *testing.T) {
		transport := &scriptedTransport{}
		client := newTestClient(t, transport)

		fut := client.SendAdRequest(&contracts.AdRequest{VenueID: "venue-1"})

		assert.False(t, fut.Fulfilled())
	})

	t.Run("posts the encoded request to the get_ad endpoint", func(t *testing.T) {
		transport := &scriptedTransport{}
		client := newTestClient(t, transport)
		req := &contracts.AdRequest{VenueID: "venue-1", NumberOfScreens: 1}

		client.SendAdRequest(req)

		post := transport.post(t, 0)
		assert.Equal(t, "http://example.com:80/api/v1/get_ad/protobuf", post.url)
		assert.Equal(t, req.Marshal(), post.body)
	})

	t.Run("resolves to the decoded response on 200", func(t *testing.T) {
		transport := &scriptedTransport{}
		client := newTestClient(t, transport)
		fixture := &contracts.AdResponse{
			Advertisements: []*contracts.Advertisement{{ID: "ad-1", AssetURL: "http://cdn/a.png"}},
		}

		fut := client.SendAdRequest(&contracts.AdRequest{})
		transport.post(t, 0).handler.OnResponse(200, "OK", fixture.Marshal())

		res, err := fut.Get(time.Second)
		require.NoError(t, err)
		require.True(t, res.IsSuccess())
		assert.Equal(t, fixture, res.Value())
	})

	t.Run("passes a server error through verbatim", func(t *testing.T) {
		transport := &scriptedTransport{}
		client := newTestClient(t, transport)

		fut := client.SendAdRequest(&contracts.AdRequest{})
		transport.post(t, 0).handler.OnResponse(500, "boom", nil)

		res, err := fut.Get(time.Second)
		require.NoError(t, err)
		assert.False(t, res.IsSuccess())

		code, message := res.Err()
		assert.Equal(t, 500, code)
		assert.Equal(t, "boom", message)
	})

	t.Run("maps an undecodable body to 500", func(t *testing.T) {
		transport := &scriptedTransport{}
		client := newTestClient(t, transport)

		fut := client.SendAdRequest(&contracts.AdRequest{})
		transport.post(t, 0).handler.OnResponse(200, "OK", []byte{0xff})

		res, err := fut.Get(time.Second)
		require.NoError(t, err)
		assert.False(t, res.IsSuccess())

		code, message := res.Err()
		assert.Equal(t, 500, code)
		assert.NotEmpty(t, message)
	})

	t.Run("maps a transport failure to 400", func(t *testing.T) {
		transport := &scriptedTransport{}
		client := newTestClient(t, transport)

		fut := client.SendAdRequest(&contracts.AdRequest{})
		transport.post(t, 0).handler.OnThrowable(errors.New("connection refused"))

		res, err := fut.Get(time.Second)
		require.NoError(t, err)

		code, message := res.Err()
		assert.Equal(t, 400, code)
		assert.Equal(t, "connection refused", message)
	})
}

func TestSendProofOfPlay(t *testing.T) {
	t.Run("posts the encoded proof of play to its endpoint", func(t *testing.T) {
		transport := &scriptedTransport{}
		client := newTestClient(t, transport)
		pop := &contracts.ProofOfPlay{LeaseID: "lease-1", DisplayTime: 1321394741}

		client.SendProofOfPlay(pop)

		post := transport.post(t, 0)
		assert.Equal(t, "http://example.com:80/api/v1/proof_of_play/protobuf", post.url)
		assert.Equal(t, pop.Marshal(), post.body)
	})

	t.Run("resolves to the echoed proof of play", func(t *testing.T) {
		transport := &scriptedTransport{}
		client := newTestClient(t, transport)
		pop := &contracts.ProofOfPlay{LeaseID: "lease-1", NumberOfScreens: 2}

		fut := client.SendProofOfPlay(pop)
		transport.post(t, 0).handler.OnResponse(200, "OK", pop.Marshal())

		res, err := fut.Get(time.Second)
		require.NoError(t, err)
		require.True(t, res.IsSuccess())
		assert.Equal(t, pop, res.Value())
	})
}

func TestSendRequestFailureRouting(t *testing.T) {
	t.Run("a malformed host resolves the future instead of escaping", func(t *testing.T) {
		client, err := NewApiClient("bad host", 80, &scriptedTransport{})
		require.NoError(t, err)

		fut := client.SendAdRequest(&contracts.AdRequest{})

		res, err := fut.Get(time.Second)
		require.NoError(t, err)
		assert.False(t, res.IsSuccess())

		code, _ := res.Err()
		assert.Equal(t, 400, code)
	})

	t.Run("a synchronous post error resolves the future with 400", func(t *testing.T) {
		transport := &mockTransport{}
		transport.On("Post", mock.AnythingOfType("string"), mock.Anything, mock.Anything).
			Return(errors.New("socket exhausted"))
		client := newTestClient(t, transport)

		fut := client.SendAdRequest(&contracts.AdRequest{})

		res, err := fut.Get(time.Second)
		require.NoError(t, err)

		code, message := res.Err()
		assert.Equal(t, 400, code)
		assert.Equal(t, "socket exhausted", message)
		transport.AssertExpectations(t)
	})
}

func TestGetAdResponse(t *testing.T) {
	t.Run("returns the response from an inline transport", func(t *testing.T) {
		fixture := &contracts.AdResponse{
			Advertisements: []*contracts.Advertisement{{ID: "ad-1", LengthInSeconds: 15}},
		}
		client := newTestClient(t, &inlineTransport{statusCode: 200, message: "OK", body: fixture.Marshal()})

		resp, err := client.GetAdResponse(&contracts.AdRequest{})

		require.NoError(t, err)
		assert.Equal(t, fixture, resp)
	})

	t.Run("raises a typed error for a server error", func(t *testing.T) {
		client := newTestClient(t, &inlineTransport{statusCode: 500, message: "boom"})

		_, err := client.GetAdResponse(&contracts.AdRequest{})

		var apiErr *contracts.ApiError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 500, apiErr.Code)
		assert.Equal(t, "boom", apiErr.Message)
	})

	t.Run("raises 408 when the transport never calls back", func(t *testing.T) {
		client := newTestClient(t, silentTransport{}, WithSyncTimeout(time.Second))

		start := time.Now()
		_, err := client.GetAdResponse(&contracts.AdRequest{})
		elapsed := time.Since(start)

		var apiErr *contracts.ApiError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 408, apiErr.Code)
		assert.GreaterOrEqual(t, elapsed, time.Second)
		assert.Less(t, elapsed, 3*time.Second)
	})
}

func TestGetProofOfPlay(t *testing.T) {
	t.Run("returns the echoed proof of play", func(t *testing.T) {
		pop := &contracts.ProofOfPlay{LeaseID: "lease-9", DisplayTime: 1321394741}
		client := newTestClient(t, &inlineTransport{statusCode: 200, message: "OK", body: pop.Marshal()})

		echoed, err := client.GetProofOfPlay(pop)

		require.NoError(t, err)
		assert.Equal(t, pop, echoed)
	})
}
