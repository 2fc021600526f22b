package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avrelia/mdexport/internal/models"
	"github.com/avrelia/mdexport/internal/shared"
	"github.com/charmbracelet/log"
)

const mangadexBaseURL = "https://api.mangadex.org"

// allContentRatings is carried on every metadata and feed call so no tier of
// the library is silently filtered out.
var allContentRatings = []string{"safe", "suggestive", "erotica", "pornographic"}

// MangaDexService is the client for the source service.
type MangaDexService struct {
	client  *Client
	session *Session
	logger  *log.Logger
	baseURL string
}

// NewMangaDexService creates the MangaDex client and installs the transparent
// re-login hook on the transport: a 401 on any non-login call re-runs the
// login handshake with the stored credentials and retries once.
func NewMangaDexService(client *Client, session *Session, logger *log.Logger) *MangaDexService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	s := &MangaDexService{
		client:  client,
		session: session,
		logger:  logger,
		baseURL: mangadexBaseURL,
	}
	client.SetRefresh(s.loginURL(), s.relogin)
	return s
}

// SetBaseURL overrides the API base URL. Used by tests.
func (s *MangaDexService) SetBaseURL(base string) {
	s.baseURL = base
	s.client.SetRefresh(s.loginURL(), s.relogin)
}

func (s *MangaDexService) Name() string { return "MangaDex" }

func (s *MangaDexService) loginURL() string { return s.baseURL + "/auth/login" }

type loginResponse struct {
	Result string `json:"result"`
	Token  struct {
		Session string `json:"session"`
		Refresh string `json:"refresh"`
	} `json:"token"`
}

type apiError struct {
	Result string `json:"result"`
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

// Login authenticates with username/password and stores the token pair and
// the credentials on the session for later transparent re-login.
func (s *MangaDexService) Login(ctx context.Context, username, password string) error {
	if err := s.login(ctx, username, password); err != nil {
		return err
	}
	s.session.SetCredentials(username, password)
	return nil
}

func (s *MangaDexService) login(ctx context.Context, username, password string) error {
	resp, err := s.client.Send(ctx, http.MethodPost, s.loginURL(), Options{
		NoAuth: true,
		JSON:   map[string]string{"username": username, "password": password},
	})
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized {
			var detail apiError
			if jerr := json.Unmarshal([]byte(httpErr.Body), &detail); jerr == nil && len(detail.Errors) > 0 {
				return fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, detail.Errors[0].Detail)
			}
			return fmt.Errorf("%w: 401", shared.ErrInvalidCredentials)
		}
		return err
	}

	var body loginResponse
	if err := resp.Decode(&body); err != nil {
		return err
	}
	s.session.SetTokens(body.Token.Session, body.Token.Refresh)
	return nil
}

// relogin re-runs the login handshake with the stored credentials, updating
// the session tokens in place. Installed as the transport's refresh hook.
func (s *MangaDexService) relogin(ctx context.Context) error {
	username, password, ok := s.session.Credentials()
	if !ok {
		return shared.ErrMissingCredentials
	}
	return s.login(ctx, username, password)
}

// Logout clears the session state.
func (s *MangaDexService) Logout() {
	s.session.Clear()
}

// Library fetches the full (title id -> status) map for the authenticated
// user in a single call.
func (s *MangaDexService) Library(ctx context.Context) (map[string]models.ReadingStatus, error) {
	resp, err := s.client.Send(ctx, http.MethodGet, s.baseURL+"/manga/status", Options{})
	if err != nil {
		return nil, err
	}

	var body struct {
		Result   string            `json:"result"`
		Statuses map[string]string `json:"statuses"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}
	if body.Result != "ok" {
		return nil, fmt.Errorf("%w: library fetch returned %q", shared.ErrRemote, body.Result)
	}

	statuses := make(map[string]models.ReadingStatus, len(body.Statuses))
	for id, status := range body.Statuses {
		statuses[id] = models.ReadingStatus(status)
	}
	return statuses, nil
}

type mangaDatum struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Title                  map[string]string `json:"title"`
		Description            map[string]string `json:"description"`
		Links                  map[string]string `json:"links"`
		OriginalLanguage       string            `json:"originalLanguage"`
		PublicationDemographic string            `json:"publicationDemographic"`
		Status                 string            `json:"status"`
		Year                   *int              `json:"year"`
		ContentRating          string            `json:"contentRating"`
		Tags                   []struct {
			Attributes struct {
				Name map[string]string `json:"name"`
			} `json:"attributes"`
		} `json:"tags"`
	} `json:"attributes"`
	Relationships []struct {
		Type       string `json:"type"`
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
	} `json:"relationships"`
}

// toModel flattens a MangaDex manga object into the export model.
func (d mangaDatum) toModel() models.Manga {
	m := models.Manga{
		ID:               d.ID,
		Type:             d.Type,
		Title:            d.Attributes.Title,
		Description:      d.Attributes.Description,
		OriginalLanguage: d.Attributes.OriginalLanguage,
		Demographic:      d.Attributes.PublicationDemographic,
		Status:           d.Attributes.Status,
		ContentRating:    d.Attributes.ContentRating,
		MALID:            d.Attributes.Links["mal"],
		AniListID:        d.Attributes.Links["al"],
	}
	if d.Attributes.Year != nil {
		m.Year = *d.Attributes.Year
	}
	for _, tag := range d.Attributes.Tags {
		if name := tag.Attributes.Name["en"]; name != "" {
			m.Tags = append(m.Tags, name)
		}
	}
	for _, rel := range d.Relationships {
		switch rel.Type {
		case "author":
			if rel.Attributes.Name != "" {
				m.Author = rel.Attributes.Name
			}
		case "artist":
			if rel.Attributes.Name != "" {
				m.Artist = rel.Attributes.Name
			}
		}
	}
	return m
}

// MangaBatch fetches metadata for up to 100 title ids in one call, with all
// content-rating tiers and author/artist relationship includes.
func (s *MangaDexService) MangaBatch(ctx context.Context, ids []string) ([]models.Manga, error) {
	query := url.Values{}
	for _, id := range ids {
		query.Add("ids[]", id)
	}
	query.Set("limit", "100")
	for _, rating := range allContentRatings {
		query.Add("contentRating[]", rating)
	}
	for _, include := range []string{"cover_art", "artist", "author"} {
		query.Add("includes[]", include)
	}

	resp, err := s.client.Send(ctx, http.MethodGet, s.baseURL+"/manga", Options{Query: query})
	if err != nil {
		return nil, err
	}

	var body struct {
		Data []mangaDatum `json:"data"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}

	manga := make([]models.Manga, 0, len(body.Data))
	for _, datum := range body.Data {
		manga = append(manga, datum.toModel())
	}
	return manga, nil
}

// Feed fetches a title's chapter feed filtered to the given locales,
// returning only chapter-type entries.
func (s *MangaDexService) Feed(ctx context.Context, mangaID string, locales []string) ([]models.Chapter, error) {
	query := url.Values{}
	for _, locale := range locales {
		query.Add("translatedLanguage[]", locale)
	}
	query.Set("limit", "300")
	query.Set("offset", "0")
	for _, include := range []string{"scanlation_group", "user"} {
		query.Add("includes[]", include)
	}
	query.Set("order[volume]", "desc")
	query.Set("order[chapter]", "desc")
	for _, rating := range allContentRatings {
		query.Add("contentRating[]", rating)
	}
	query.Set("includeUnavailable", "1")

	resp, err := s.client.Send(ctx, http.MethodGet, s.baseURL+"/manga/"+mangaID+"/feed", Options{Query: query})
	if err != nil {
		return nil, err
	}

	var body struct {
		Data []struct {
			ID         string `json:"id"`
			Type       string `json:"type"`
			Attributes struct {
				Chapter string `json:"chapter"`
				Volume  string `json:"volume"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}

	var chapters []models.Chapter
	for _, datum := range body.Data {
		if datum.Type != "chapter" {
			continue
		}
		chapters = append(chapters, models.Chapter{
			ID:      datum.ID,
			Chapter: datum.Attributes.Chapter,
			Volume:  datum.Attributes.Volume,
		})
	}
	return chapters, nil
}

// ReadMarkers fetches the read-chapter id lists for a batch of titles,
// grouped by title id. An empty or list-shaped data payload yields an empty
// map.
func (s *MangaDexService) ReadMarkers(ctx context.Context, ids []string) (map[string][]string, error) {
	query := url.Values{}
	for _, id := range ids {
		query.Add("ids[]", id)
	}
	query.Set("grouped", "true")

	resp, err := s.client.Send(ctx, http.MethodGet, s.baseURL+"/manga/read", Options{Query: query})
	if err != nil {
		return nil, err
	}

	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}

	// The endpoint returns an empty list instead of an object when no title
	// has read markers.
	markers := map[string][]string{}
	if len(body.Data) > 0 {
		if err := json.Unmarshal(body.Data, &markers); err != nil {
			return map[string][]string{}, nil
		}
	}
	return markers, nil
}

// Ratings fetches the user's ratings for a batch of titles.
func (s *MangaDexService) Ratings(ctx context.Context, ids []string) (map[string]float64, error) {
	query := url.Values{}
	for _, id := range ids {
		query.Add("manga[]", id)
	}

	resp, err := s.client.Send(ctx, http.MethodGet, s.baseURL+"/rating", Options{Query: query})
	if err != nil {
		return nil, err
	}

	var body struct {
		Ratings map[string]struct {
			Rating float64 `json:"rating"`
		} `json:"ratings"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}

	ratings := make(map[string]float64, len(body.Ratings))
	for id, r := range body.Ratings {
		ratings[id] = r.Rating
	}
	return ratings, nil
}

// FilteredLanguages fetches the user's preferred chapter locales from their
// account settings.
func (s *MangaDexService) FilteredLanguages(ctx context.Context) ([]string, error) {
	resp, err := s.client.Send(ctx, http.MethodGet, s.baseURL+"/settings", Options{})
	if err != nil {
		return nil, err
	}

	var body struct {
		Settings struct {
			UserPreferences struct {
				FilteredLanguages []string `json:"filteredLanguages"`
			} `json:"userPreferences"`
		} `json:"settings"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}
	return body.Settings.UserPreferences.FilteredLanguages, nil
}
