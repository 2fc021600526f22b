package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/avrelia/mdexport/internal/shared"
	mdtest "github.com/avrelia/mdexport/internal/testing"
)

func newTestClient(rt http.RoundTripper, tokens TokenSource) *Client {
	client := NewClient(&http.Client{Transport: rt}, tokens, shared.NewLogger(&mdtest.FWriter{}))
	client.SetRetry(defaultMaxAttempts, time.Millisecond)
	return client
}

func TestSendRetriesNetworkErrors(t *testing.T) {
	netErr := errors.New("connection refused")
	rt := &mdtest.QueuedRoundTripper{
		Errors:    []error{netErr, netErr, nil},
		Responses: []*http.Response{nil, nil, mdtest.JSONResponse(200, `{"result":"ok"}`)},
	}
	client := newTestClient(rt, nil)

	resp, err := client.Send(context.Background(), http.MethodGet, "http://api/manga/status", Options{})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if len(rt.Requests) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(rt.Requests))
	}
}

func TestSendExhaustsRetries(t *testing.T) {
	netErr := errors.New("connection refused")
	rt := &mdtest.QueuedRoundTripper{
		Errors: []error{netErr, netErr, netErr, netErr, netErr, netErr},
	}
	client := newTestClient(rt, nil)

	_, err := client.Send(context.Background(), http.MethodGet, "http://api/manga/status", Options{})
	if !errors.Is(err, shared.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if len(rt.Requests) != defaultMaxAttempts {
		t.Errorf("expected %d attempts, got %d", defaultMaxAttempts, len(rt.Requests))
	}
}

func TestSendReauthenticatesOnce(t *testing.T) {
	rt := &mdtest.QueuedRoundTripper{
		Responses: []*http.Response{
			mdtest.JSONResponse(401, `{"result":"error"}`),
			mdtest.JSONResponse(200, `{"result":"ok"}`),
		},
	}
	session := &Session{}
	session.SetTokens("stale", "refresh")
	client := newTestClient(rt, session)

	refreshes := 0
	client.SetRefresh("http://api/auth/login", func(ctx context.Context) error {
		refreshes++
		session.SetTokens("fresh", "refresh")
		return nil
	})

	resp, err := client.Send(context.Background(), http.MethodGet, "http://api/manga/status", Options{})
	if err != nil {
		t.Fatalf("expected success after reauth, got %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if refreshes != 1 {
		t.Errorf("expected exactly 1 refresh, got %d", refreshes)
	}
	if got := rt.Requests[1].Header.Get("Authorization"); got != "Bearer fresh" {
		t.Errorf("retry should carry the refreshed token, got %q", got)
	}
}

func TestSendRepeatedUnauthorizedAfterReauth(t *testing.T) {
	rt := &mdtest.QueuedRoundTripper{
		Responses: []*http.Response{
			mdtest.JSONResponse(401, `{"result":"error"}`),
			mdtest.JSONResponse(401, `{"result":"error"}`),
		},
	}
	client := newTestClient(rt, &Session{})
	refreshes := 0
	client.SetRefresh("http://api/auth/login", func(ctx context.Context) error {
		refreshes++
		return nil
	})

	_, err := client.Send(context.Background(), http.MethodGet, "http://api/manga/status", Options{})
	if !errors.Is(err, shared.ErrAuthFailed) {
		t.Fatalf("a 401 after reauth must classify as ErrAuthFailed, got %v", err)
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != 401 {
		t.Errorf("underlying HTTP failure must stay inspectable, got %v", err)
	}
	if refreshes != 1 {
		t.Errorf("expected exactly 1 refresh, got %d", refreshes)
	}
	if len(rt.Requests) != 2 {
		t.Errorf("expected original call + one retry, got %d requests", len(rt.Requests))
	}
}

func TestSendReauthFailureSurfaces(t *testing.T) {
	rt := &mdtest.QueuedRoundTripper{
		Responses: []*http.Response{mdtest.JSONResponse(401, `{}`)},
	}
	client := newTestClient(rt, &Session{})
	client.SetRefresh("http://api/auth/login", func(ctx context.Context) error {
		return errors.New("bad credentials")
	})

	_, err := client.Send(context.Background(), http.MethodGet, "http://api/manga/status", Options{})
	if !errors.Is(err, shared.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if len(rt.Requests) != 1 {
		t.Errorf("original call must not be retried after a failed refresh, got %d requests", len(rt.Requests))
	}
}

func TestSendNeverReauthenticatesLoginURL(t *testing.T) {
	rt := &mdtest.QueuedRoundTripper{
		Responses: []*http.Response{mdtest.JSONResponse(401, `{}`)},
	}
	client := newTestClient(rt, &Session{})
	refreshes := 0
	client.SetRefresh("http://api/auth/login", func(ctx context.Context) error {
		refreshes++
		return nil
	})

	_, err := client.Send(context.Background(), http.MethodPost, "http://api/auth/login", Options{NoAuth: true})
	if !errors.Is(err, shared.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
	if refreshes != 0 {
		t.Errorf("login calls must not trigger a refresh, got %d", refreshes)
	}
}

func TestSendSurfacesHTTPErrorWithoutRetry(t *testing.T) {
	rt := &mdtest.QueuedRoundTripper{
		Responses: []*http.Response{mdtest.JSONResponse(500, `{"result":"error"}`)},
	}
	client := newTestClient(rt, nil)

	_, err := client.Send(context.Background(), http.MethodGet, "http://api/manga", Options{})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.Status != 500 {
		t.Errorf("expected status 500, got %d", httpErr.Status)
	}
	if len(rt.Requests) != 1 {
		t.Errorf("HTTP errors must not be retried, got %d requests", len(rt.Requests))
	}
}

func TestSendReadsTokenPerRequest(t *testing.T) {
	rt := &mdtest.QueuedRoundTripper{
		Responses: []*http.Response{
			mdtest.JSONResponse(200, `{}`),
			mdtest.JSONResponse(200, `{}`),
		},
	}
	session := &Session{}
	session.SetTokens("first", "")
	client := newTestClient(rt, session)

	if _, err := client.Send(context.Background(), http.MethodGet, "http://api/settings", Options{}); err != nil {
		t.Fatal(err)
	}
	session.SetTokens("second", "")
	if _, err := client.Send(context.Background(), http.MethodGet, "http://api/settings", Options{}); err != nil {
		t.Fatal(err)
	}

	if got := rt.Requests[0].Header.Get("Authorization"); got != "Bearer first" {
		t.Errorf("first request token = %q", got)
	}
	if got := rt.Requests[1].Header.Get("Authorization"); got != "Bearer second" {
		t.Errorf("second request token = %q", got)
	}
}
