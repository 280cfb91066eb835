package auth

// gateway.go implements the authentication flows: credential format checks,
// login/signup against the profile API, and federated sign-in reconciled
// against the local username space. Input that fails validation never
// reaches the network.

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/MatthewBrawders/Tome/internal/apierr"
	"github.com/MatthewBrawders/Tome/internal/models"
)

// API is the slice of the REST client the gateway needs.
type API interface {
	Login(ctx context.Context, creds models.Credentials) (models.Profile, error)
	CreateProfile(ctx context.Context, creds models.Credentials) (models.Profile, error)
}

// Sessions is the session store surface the gateway mutates. It is the only
// writer of the session identity.
type Sessions interface {
	Current() string
	Set(username string) error
	Clear() error
}

var (
	usernameRE = regexp.MustCompile(`^[A-Za-z0-9._-]{3,20}$`)
	letterRE   = regexp.MustCompile(`[A-Za-z]`)
	digitRE    = regexp.MustCompile(`\d`)
)

const (
	msgBadUsername = "Invalid username (3-20 chars: letters, numbers, . _ -)."
	msgBadPassword = "Password must be 8+ chars with letters and numbers."
	msgBadIdentity = "Missing or invalid federated account info."
)

type Gateway struct {
	api      API
	sessions Sessions
	log      zerolog.Logger
}

func NewGateway(api API, sessions Sessions, log zerolog.Logger) *Gateway {
	return &Gateway{api: api, sessions: sessions, log: log}
}

// CurrentUser reads the session identity; empty means logged out.
func (g *Gateway) CurrentUser() string { return g.sessions.Current() }

// sanitizeUsername trims and checks the username format.
func sanitizeUsername(raw string) (string, bool) {
	u := strings.TrimSpace(raw)
	return u, usernameRE.MatchString(u)
}

func validPassword(raw string) bool {
	return len(raw) >= 8 && letterRE.MatchString(raw) && digitRE.MatchString(raw)
}

// Login validates the credentials locally, authenticates against the
// profile API and mirrors the resulting identity into the session cookie.
func (g *Gateway) Login(ctx context.Context, username, password string) (models.Profile, error) {
	u, ok := sanitizeUsername(username)
	if !ok {
		return models.Profile{}, apierr.Validation(msgBadUsername)
	}
	if !validPassword(password) {
		return models.Profile{}, apierr.Validation(msgBadPassword)
	}

	profile, err := g.api.Login(ctx, models.Credentials{Username: u, Password: password})
	if err != nil {
		return models.Profile{}, err
	}
	if profile.Username == "" {
		profile.Username = u
	}
	if err := g.sessions.Set(profile.Username); err != nil {
		return models.Profile{}, err
	}
	g.log.Info().Str("username", profile.Username).Msg("logged in")
	return profile, nil
}

// Signup validates the credentials locally, creates the profile and logs the
// new identity in. Same contract as Login.
func (g *Gateway) Signup(ctx context.Context, username, password string) (models.Profile, error) {
	u, ok := sanitizeUsername(username)
	if !ok {
		return models.Profile{}, apierr.Validation(msgBadUsername)
	}
	if !validPassword(password) {
		return models.Profile{}, apierr.Validation(msgBadPassword)
	}

	profile, err := g.api.CreateProfile(ctx, models.Credentials{Username: u, Password: password})
	if err != nil {
		return models.Profile{}, err
	}
	if profile.Username == "" {
		profile.Username = u
	}
	if err := g.sessions.Set(profile.Username); err != nil {
		return models.Profile{}, err
	}
	g.log.Info().Str("username", profile.Username).Msg("signed up")
	return profile, nil
}

// LoginOrRegisterFederated reconciles an external identity against the local
// profile space. The candidate username is the lowercase local-part of the
// email, the external subject id stands in for the password. Login is tried
// first; on failure a signup with the same derived credentials is attempted
// and login retried, surfacing only the final login error. On success the
// session username is forced to the derived local-part regardless of what
// the server profile says, so later requests resolve consistently.
func (g *Gateway) LoginOrRegisterFederated(ctx context.Context, email, subjectID string) (models.Profile, error) {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	u, ok := sanitizeUsername(strings.ToLower(local))
	pass := strings.TrimSpace(subjectID)
	if !ok || pass == "" {
		return models.Profile{}, apierr.Validation(msgBadIdentity)
	}

	creds := models.Credentials{Username: u, Password: pass}
	profile, err := g.api.Login(ctx, creds)
	if err != nil {
		// First contact for this identity, most likely. The signup error is
		// deliberately dropped; the retried login decides the outcome.
		if _, suErr := g.api.CreateProfile(ctx, creds); suErr != nil {
			g.log.Debug().Err(suErr).Str("username", u).Msg("federated signup attempt failed")
		}
		profile, err = g.api.Login(ctx, creds)
		if err != nil {
			return models.Profile{}, err
		}
	}

	profile.Username = u
	if err := g.sessions.Set(u); err != nil {
		return models.Profile{}, err
	}
	g.log.Info().Str("username", u).Msg("federated sign-in")
	return profile, nil
}

// LoginWithIDToken extracts the email and subject claims from a provider ID
// token and runs the federated flow with them.
func (g *Gateway) LoginWithIDToken(ctx context.Context, rawToken string) (models.Profile, error) {
	email, subject, err := DecodeIDToken(rawToken)
	if err != nil {
		return models.Profile{}, err
	}
	return g.LoginOrRegisterFederated(ctx, email, subject)
}

// Logout clears the cookie and local identity. Sessions are cookie-only, so
// there is nothing server-side to invalidate and no call is made.
func (g *Gateway) Logout() error {
	return g.sessions.Clear()
}
