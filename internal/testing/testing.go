// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// QueuedRoundTripper replays a fixed sequence of responses and errors, one
// per request, recording every request it sees. Used for retry and reauth
// flows where successive attempts must differ.
type QueuedRoundTripper struct {
	mu        sync.Mutex
	Responses []*http.Response
	Errors    []error
	Requests  []*http.Request
}

func (q *QueuedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := len(q.Requests)
	q.Requests = append(q.Requests, req)
	if i < len(q.Errors) && q.Errors[i] != nil {
		return nil, q.Errors[i]
	}
	if i < len(q.Responses) {
		return q.Responses[i], nil
	}
	return nil, errors.New("no more queued responses")
}

// JSONResponse builds an *http.Response with a JSON string body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// ReadFile reads a file or fails the test.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}
