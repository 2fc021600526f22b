package services

import "sync"

// Session holds the MangaDex token pair and the raw credentials used for
// transparent re-login. It is process-wide mutable state guarded by a mutex:
// unset at start, set on login, cleared on logout, re-set on a 401-triggered
// reauth. Callers read the token fresh per request via [Session.Token].
type Session struct {
	mu       sync.RWMutex
	session  string
	refresh  string
	username string
	password string
}

// Token returns the current session token, or "" when logged out.
// Implements [TokenSource].
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// SetTokens stores a new token pair.
func (s *Session) SetTokens(session, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.refresh = refresh
}

// SetCredentials stores the username/password pair for later re-login.
func (s *Session) SetCredentials(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.password = password
}

// Credentials returns the stored credential pair and whether one exists.
func (s *Session) Credentials() (string, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username, s.password, s.username != ""
}

// Authenticated reports whether a session token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Clear wipes tokens and credentials. Called on logout.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = ""
	s.refresh = ""
	s.username = ""
	s.password = ""
}
