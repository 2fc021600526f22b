package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avrelia/mdexport/internal/shared"
	mdtest "github.com/avrelia/mdexport/internal/testing"
)

func newTestAniList(t *testing.T, handler http.Handler) *AniListService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.Client(), nil, shared.NewLogger(&mdtest.FWriter{}))
	client.SetRetry(2, time.Millisecond)
	svc := NewAniListService(client, shared.AniListConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURI:  "https://anilist.co/api/v2/oauth/pin",
	}, shared.NewLogger(&mdtest.FWriter{}))
	svc.SetAPIURL(server.URL)
	return svc
}

func TestSaveEntryOmitsNilFields(t *testing.T) {
	var captured map[string]any
	svc := newTestAniList(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer al-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Write([]byte(`{"data":{"SaveMediaListEntry":{"id":1,"status":"CURRENT"}}}`))
	}))
	svc.SetToken("al-token")

	score := 8.0
	entry := ListEntry{MediaID: 123, Status: "CURRENT", Score: &score}
	if err := svc.SaveEntry(context.Background(), entry); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	variables, ok := captured["variables"].(map[string]any)
	if !ok {
		t.Fatalf("no variables in request: %v", captured)
	}
	if variables["mediaId"] != float64(123) {
		t.Errorf("mediaId = %v", variables["mediaId"])
	}
	if variables["status"] != "CURRENT" {
		t.Errorf("status = %v", variables["status"])
	}
	if variables["score"] != float64(8) {
		t.Errorf("score = %v", variables["score"])
	}
	if _, present := variables["progress"]; present {
		t.Error("nil progress must be omitted from variables")
	}
	if _, present := variables["progressVolumes"]; present {
		t.Error("nil progressVolumes must be omitted from variables")
	}
}

func TestSaveEntrySendsAllProgress(t *testing.T) {
	var captured map[string]any
	svc := newTestAniList(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.Write([]byte(`{"data":{"SaveMediaListEntry":{"id":2,"status":"COMPLETED"}}}`))
	}))
	svc.SetToken("al-token")

	progress, volumes := 42, 5
	entry := ListEntry{MediaID: 7, Status: "COMPLETED", Progress: &progress, ProgressVolumes: &volumes}
	if err := svc.SaveEntry(context.Background(), entry); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	variables := captured["variables"].(map[string]any)
	if variables["progress"] != float64(42) {
		t.Errorf("progress = %v", variables["progress"])
	}
	if variables["progressVolumes"] != float64(5) {
		t.Errorf("progressVolumes = %v", variables["progressVolumes"])
	}
}

func TestSaveEntrySurfacesGraphQLErrors(t *testing.T) {
	svc := newTestAniList(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Invalid media id"}],"data":null}`))
	}))
	svc.SetToken("al-token")

	err := svc.SaveEntry(context.Background(), ListEntry{MediaID: 999, Status: "CURRENT"})
	if !errors.Is(err, shared.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
}

func TestSaveEntryRequiresToken(t *testing.T) {
	svc := newTestAniList(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unauthenticated save must not reach the API")
	}))

	err := svc.SaveEntry(context.Background(), ListEntry{MediaID: 1, Status: "CURRENT"})
	if !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestAuthURLCarriesClientConfig(t *testing.T) {
	svc := newTestAniList(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	url := svc.AuthURL("state-1")
	for _, want := range []string{"client_id=client", "response_type=code", "state=state-1"} {
		if !strings.Contains(url, want) {
			t.Errorf("auth URL %q missing %q", url, want)
		}
	}
}
