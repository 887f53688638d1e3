package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	goAuth "github.com/MrEthical07/goAuth"
	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/launchpad-starter/launchpad/internal/users"
)

// ErrSocialConflict is returned when a Google sign-in hits an account that
// was registered with a password. The two credential paths are not merged.
var ErrSocialConflict = errors.New("account already uses password sign-in")

// GoogleBeginURL starts the OAuth dance. The caller persists state in a
// short-lived cookie and checks it on the callback.
func (p *Provider) GoogleBeginURL(state string) string {
	return p.google.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// CompleteGoogle exchanges the callback code, resolves the Google identity,
// and turns it into an engine session.
//
// The engine is credential-based, so social accounts authenticate with a
// server-derived credential: an HMAC of the Google subject id under the
// session secret. It never leaves the process and cannot be replayed without
// a fresh, verified OAuth exchange.
func (p *Provider) CompleteGoogle(ctx context.Context, code string) (TokenPair, error) {
	tok, err := p.google.Exchange(ctx, code)
	if err != nil {
		return TokenPair{}, fmt.Errorf("google exchange: %w", err)
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(p.google.TokenSource(ctx, tok)))
	if err != nil {
		return TokenPair{}, fmt.Errorf("google userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return TokenPair{}, fmt.Errorf("google userinfo: %w", err)
	}
	if info.Email == "" || info.Id == "" {
		return TokenPair{}, fmt.Errorf("google userinfo: incomplete profile")
	}

	credential := p.derivedCredential("google", info.Id)

	rec, err := p.users.GetByEmail(ctx, info.Email)
	switch {
	case errors.Is(err, users.ErrNotFound):
		return p.createSocialAccount(ctx, info, credential)
	case err != nil:
		return TokenPair{}, fmt.Errorf("social lookup: %w", err)
	}

	access, refresh, err := p.engine.Login(ctx, info.Email, credential)
	if errors.Is(err, goAuth.ErrInvalidCredentials) {
		// Same email, different credential path: registered with a password.
		return TokenPair{}, ErrSocialConflict
	}
	if err != nil {
		return TokenPair{}, mapLoginErr(err)
	}

	// Profile refresh is best-effort on returning visits.
	_ = p.users.SyncProfile(ctx, rec.ID, info.Name, info.Picture)

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (p *Provider) createSocialAccount(ctx context.Context, info *oauth2api.Userinfo, credential string) (TokenPair, error) {
	res, err := p.engine.CreateAccount(ctx, goAuth.CreateAccountRequest{
		Identifier: info.Email,
		Password:   credential,
	})
	if err != nil {
		return TokenPair{}, mapSignUpErr(err)
	}

	if err := p.users.SyncProfile(ctx, res.UserID, info.Name, info.Picture); err != nil {
		return TokenPair{Access: res.AccessToken, Refresh: res.RefreshToken}, nil
	}
	return TokenPair{Access: res.AccessToken, Refresh: res.RefreshToken}, nil
}

func (p *Provider) derivedCredential(provider, subject string) string {
	mac := hmac.New(sha256.New, p.secret)
	mac.Write([]byte(provider + ":" + subject))
	return hex.EncodeToString(mac.Sum(nil))
}
