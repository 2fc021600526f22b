package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avrelia/mdexport/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

const (
	anilistAuthURL    = "https://anilist.co/api/v2/oauth/authorize"
	anilistTokenURL   = "https://anilist.co/api/v2/oauth/token"
	anilistGraphQLURL = "https://graphql.anilist.co"
)

// saveEntryMutation writes one list entry. Variables left nil are omitted so
// AniList keeps the existing value instead of zeroing it.
const saveEntryMutation = `mutation ($mediaId: Int, $status: MediaListStatus, $score: Float, $progress: Int, $progressVolumes: Int) {
  SaveMediaListEntry(mediaId: $mediaId, status: $status, score: $score, progress: $progress, progressVolumes: $progressVolumes) {
    id
    status
  }
}`

// ListEntry is one entry to upsert on the destination list. Optional fields
// are pointers; nil means "leave unchanged".
type ListEntry struct {
	MediaID         int
	Status          string
	Score           *float64
	Progress        *int
	ProgressVolumes *int
}

// AniListService is the client for the destination service. Authentication
// uses the OAuth2 authorization-code grant; list writes go through the single
// GraphQL endpoint.
type AniListService struct {
	client *Client
	config *oauth2.Config
	token  string
	logger *log.Logger
	apiURL string
}

// NewAniListService creates the AniList client from the configured OAuth2
// application credentials.
func NewAniListService(client *Client, cfg shared.AniListConfig, logger *log.Logger) *AniListService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AniListService{
		client: client,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  anilistAuthURL,
				TokenURL: anilistTokenURL,
			},
		},
		logger: logger,
		apiURL: anilistGraphQLURL,
	}
}

// SetAPIURL overrides the GraphQL endpoint. Used by tests.
func (s *AniListService) SetAPIURL(u string) { s.apiURL = u }

func (s *AniListService) Name() string { return "AniList" }

// AuthURL builds the authorization-code URL the user opens in a browser.
func (s *AniListService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Authenticate exchanges the pasted authorization code for an access token.
func (s *AniListService) Authenticate(ctx context.Context, code string) error {
	if s.config.ClientID == "" || s.config.ClientSecret == "" {
		return fmt.Errorf("%w: anilist client id/secret not configured", shared.ErrMissingCredentials)
	}
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	s.token = token.AccessToken
	return nil
}

// SetToken installs an access token directly. Used by tests and by session
// restore.
func (s *AniListService) SetToken(token string) { s.token = token }

// Token returns the current access token, or "" when unauthenticated.
func (s *AniListService) Token() string { return s.token }

func (s *AniListService) Authenticated() bool { return s.token != "" }

// SaveEntry upserts one list entry. Nil optional fields are left out of the
// mutation variables entirely.
func (s *AniListService) SaveEntry(ctx context.Context, entry ListEntry) error {
	if s.token == "" {
		return shared.ErrNotAuthenticated
	}

	variables := map[string]any{
		"mediaId": entry.MediaID,
		"status":  entry.Status,
	}
	if entry.Score != nil {
		variables["score"] = *entry.Score
	}
	if entry.Progress != nil {
		variables["progress"] = *entry.Progress
	}
	if entry.ProgressVolumes != nil {
		variables["progressVolumes"] = *entry.ProgressVolumes
	}

	resp, err := s.client.Send(ctx, http.MethodPost, s.apiURL, Options{
		NoAuth: true,
		JSON: map[string]any{
			"query":     saveEntryMutation,
			"variables": variables,
		},
		Header: http.Header{"Authorization": []string{"Bearer " + s.token}},
	})
	if err != nil {
		return err
	}

	var body struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := resp.Decode(&body); err != nil {
		return err
	}
	if len(body.Errors) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrRemote, body.Errors[0].Message)
	}
	return nil
}

// CredentialPrompter collects a username/password pair from the user.
type CredentialPrompter interface {
	Credentials() (username, password string, err error)
}

// CodePrompter collects an OAuth2 authorization code from the user.
type CodePrompter interface {
	Code() (string, error)
}
