package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avrelia/mdexport/internal/shared"
)

// StoredSession is one persisted service session.
type StoredSession struct {
	ID           string
	Service      string
	SessionToken string
	RefreshToken string
	Username     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionRepository persists one session row per service.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save upserts the session row for a service with a generated ID.
func (r *SessionRepository) Save(service, sessionToken, refreshToken, username string) error {
	now := time.Now()
	query := `
		INSERT INTO sessions (id, service, session_token, refresh_token, username, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(service) DO UPDATE SET
			session_token = excluded.session_token,
			refresh_token = excluded.refresh_token,
			username = excluded.username,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, shared.GenerateID(), service, sessionToken, refreshToken, username, now, now)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load retrieves the stored session for a service, or (nil, nil) when none
// exists.
func (r *SessionRepository) Load(service string) (*StoredSession, error) {
	query := `
		SELECT id, service, session_token, refresh_token, username, created_at, updated_at
		FROM sessions
		WHERE service = ?
	`

	var (
		s            StoredSession
		refreshToken sql.NullString
		username     sql.NullString
	)

	err := r.db.QueryRow(query, service).Scan(&s.ID, &s.Service, &s.SessionToken, &refreshToken, &username, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	s.RefreshToken = refreshToken.String
	s.Username = username.String
	return &s, nil
}

// Clear deletes the stored session for a service. Clearing a service with no
// session is not an error.
func (r *SessionRepository) Clear(service string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE service = ?", service); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
