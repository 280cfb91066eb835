package session

// session persists the logged-in identity as a single plaintext cookie in a
// file, the CLI stand-in for the browser cookie jar. The cookie is the sole
// source of truth for "is a user logged in": nothing here talks to the
// server, and a stale or hand-written cookie is trusted until an API call
// rejects it.

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	cookieName = "tome_user"
	maxAge     = 365 * 24 * time.Hour
)

// Store owns the session cookie. Reads are served from memory and stay
// consistent with the file, which is rewritten on every mutation.
type Store struct {
	mu      sync.Mutex
	path    string
	value   string // decoded username, empty when logged out
	expires time.Time
}

// New opens the store backed by the given file, loading whatever cookie is
// already there. A missing or unreadable file just means logged out.
func New(path string) *Store {
	s := &Store{path: path}
	s.load()
	return s
}

// Current returns the logged-in username, or empty when there is no live
// cookie.
func (s *Store) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired() {
		return ""
	}
	return s.value
}

// Set writes a one-year cookie for username. The new identity is visible to
// Current immediately.
func (s *Store) Set(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = username
	s.expires = time.Now().Add(maxAge)
	return s.write(&http.Cookie{
		Name:     cookieName,
		Value:    url.QueryEscape(username),
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Expires:  s.expires,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie immediately.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	s.expires = time.Unix(0, 0)
	return s.write(&http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		SameSite: http.SameSiteLaxMode,
	})
}

// Cookie returns the live session cookie for outbound requests, or nil when
// logged out. Implements the API client's CookieSource.
func (s *Store) Cookie() *http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired() {
		return nil
	}
	return &http.Cookie{Name: cookieName, Value: url.QueryEscape(s.value)}
}

func (s *Store) expired() bool {
	return s.value == "" || time.Now().After(s.expires)
}

func (s *Store) write(c *http.Cookie) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(c.String()+"\n"), 0o600)
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	value, expires, ok := parseCookieLine(strings.TrimSpace(string(raw)))
	if !ok {
		return
	}
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return
	}
	s.value = decoded
	s.expires = expires
}

// parseCookieLine reads a serialized tome_user cookie back into its value
// and expiry. Lines for other cookie names are ignored.
func parseCookieLine(line string) (value string, expires time.Time, ok bool) {
	parts := strings.Split(line, ";")
	if len(parts) == 0 {
		return "", time.Time{}, false
	}
	name, v, found := strings.Cut(strings.TrimSpace(parts[0]), "=")
	if !found || name != cookieName {
		return "", time.Time{}, false
	}
	// Without an Expires attribute the cookie counts as already expired;
	// Set always writes one.
	expires = time.Unix(0, 0)
	for _, attr := range parts[1:] {
		k, av, _ := strings.Cut(strings.TrimSpace(attr), "=")
		if strings.EqualFold(k, "Expires") {
			if t, err := time.Parse(http.TimeFormat, av); err == nil {
				expires = t
			}
		}
	}
	return v, expires, true
}
