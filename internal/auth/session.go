package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/launchpad-starter/launchpad/internal/users"
)

// SessionSource resolves a request to its authenticated user. The guard and
// the route handlers depend on this, not on the concrete Provider, so tests
// can substitute a stub.
type SessionSource interface {
	SessionFromRequest(c *gin.Context) (users.User, error)
}

var _ SessionSource = (*Provider)(nil)

// SessionFromRequest derives the session from the request's cookies on every
// call; there is no cached current user. When the access token has expired
// but a refresh token is present, the pair is rotated and re-set before the
// user is returned.
func (p *Provider) SessionFromRequest(c *gin.Context) (users.User, error) {
	ctx := c.Request.Context()

	if access, err := c.Cookie(AccessCookie); err == nil {
		if user, err := p.Lookup(ctx, access); err == nil {
			return user, nil
		}
	}

	refresh, err := c.Cookie(RefreshCookie)
	if err != nil || refresh == "" {
		return users.User{}, ErrNoSession
	}

	pair, err := p.Rotate(ctx, refresh)
	if err != nil {
		return users.User{}, ErrNoSession
	}

	user, err := p.Lookup(ctx, pair.Access)
	if err != nil {
		return users.User{}, ErrNoSession
	}

	SetSessionCookies(c, pair)
	return user, nil
}
