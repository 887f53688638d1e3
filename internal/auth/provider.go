// Package auth wraps the hosted authentication engine behind the two
// operations the rest of the application is allowed to use: "give me the
// session for this request" and "handle this authentication request". Token
// formats, hashing, and session storage stay inside the engine.
package auth

import (
	"context"
	"errors"
	"fmt"

	goAuth "github.com/MrEthical07/goAuth"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/launchpad-starter/launchpad/internal/users"
)

// Sentinel kinds surfaced to handlers. The engine's own error set is mapped
// here once so callers never match on message text.
var (
	ErrNoSession      = errors.New("no valid session")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrEmailTaken     = errors.New("email already registered")
	ErrThrottled      = errors.New("too many attempts, try again later")
)

// TokenPair is an opaque access/refresh pair issued by the engine.
type TokenPair struct {
	Access  string
	Refresh string
}

type Options struct {
	SessionSecret      string
	BaseURL            string
	GoogleClientID     string
	GoogleClientSecret string
}

type Provider struct {
	engine *goAuth.Engine
	users  users.Store
	google *oauth2.Config
	secret []byte
}

const defaultRole = "member"

// New builds the auth engine over Redis and the users adapter. The session
// secret signs access tokens (hs256); account creation auto-logs-in so the
// register action can end in a redirect like the login action does.
func New(rdb *redis.Client, repo users.Store, opt Options) (*Provider, error) {
	cfg := goAuth.DefaultConfig()
	cfg.JWT.SigningMethod = "hs256"
	cfg.JWT.PrivateKey = []byte(opt.SessionSecret)
	cfg.Account.Enabled = true
	cfg.Account.AutoLogin = true
	cfg.Account.DefaultRole = defaultRole

	engine, err := goAuth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithPermissions([]string{"projects.read", "projects.write"}).
		WithRoles(map[string][]string{
			defaultRole: {"projects.read", "projects.write"},
		}).
		WithUserProvider(users.NewProvider(repo)).
		Build()
	if err != nil {
		return nil, fmt.Errorf("auth engine build: %w", err)
	}

	return &Provider{
		engine: engine,
		users:  repo,
		google: &oauth2.Config{
			ClientID:     opt.GoogleClientID,
			ClientSecret: opt.GoogleClientSecret,
			RedirectURL:  opt.BaseURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		secret: []byte(opt.SessionSecret),
	}, nil
}

func (p *Provider) Close() {
	if p != nil && p.engine != nil {
		p.engine.Close()
	}
}

// Lookup validates an access token and resolves the owning user. Expired and
// absent sessions are indistinguishable: both come back as ErrNoSession.
func (p *Provider) Lookup(ctx context.Context, accessToken string) (users.User, error) {
	if accessToken == "" {
		return users.User{}, ErrNoSession
	}

	res, err := p.engine.ValidateAccess(ctx, accessToken)
	if err != nil || res == nil {
		return users.User{}, ErrNoSession
	}

	rec, err := p.users.GetByID(ctx, res.UserID)
	if err != nil {
		return users.User{}, ErrNoSession
	}
	return rec.Profile(), nil
}

// Rotate exchanges a refresh token for a fresh pair.
func (p *Provider) Rotate(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, ErrNoSession
	}
	access, refresh, err := p.engine.Refresh(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, ErrNoSession
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// SignInEmail checks credentials with the engine and returns a session pair.
func (p *Provider) SignInEmail(ctx context.Context, email, password string) (TokenPair, error) {
	access, refresh, err := p.engine.Login(ctx, email, password)
	if err != nil {
		return TokenPair{}, mapLoginErr(err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// SignUpEmail creates the account and, via auto-login, returns a session
// pair. The display name is synced after creation; the engine only knows
// identifiers and hashes.
func (p *Provider) SignUpEmail(ctx context.Context, name, email, password string) (TokenPair, error) {
	res, err := p.engine.CreateAccount(ctx, goAuth.CreateAccountRequest{
		Identifier: email,
		Password:   password,
	})
	if err != nil {
		return TokenPair{}, mapSignUpErr(err)
	}

	if err := p.users.SyncProfile(ctx, res.UserID, name, ""); err != nil {
		// Account and session exist; a missing display name is not worth
		// failing the registration over.
		return TokenPair{Access: res.AccessToken, Refresh: res.RefreshToken}, nil
	}
	return TokenPair{Access: res.AccessToken, Refresh: res.RefreshToken}, nil
}

// SignOut destroys the engine session behind an access token.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return p.engine.LogoutByAccessToken(ctx, accessToken)
}

// ActiveSessionEstimate is surfaced for the nightly usage report.
func (p *Provider) ActiveSessionEstimate(ctx context.Context) (int, error) {
	return p.engine.ActiveSessionEstimate(ctx)
}

func mapLoginErr(err error) error {
	switch {
	case errors.Is(err, goAuth.ErrInvalidCredentials),
		errors.Is(err, goAuth.ErrUserNotFound),
		errors.Is(err, users.ErrNotFound):
		return ErrBadCredentials
	case errors.Is(err, goAuth.ErrLoginRateLimited):
		return ErrThrottled
	default:
		return fmt.Errorf("sign-in: %w", err)
	}
}

func mapSignUpErr(err error) error {
	switch {
	case errors.Is(err, goAuth.ErrAccountExists):
		return ErrEmailTaken
	case errors.Is(err, goAuth.ErrAccountCreationRateLimited):
		return ErrThrottled
	case errors.Is(err, goAuth.ErrPasswordPolicy):
		return ErrBadCredentials
	default:
		return fmt.Errorf("sign-up: %w", err)
	}
}
