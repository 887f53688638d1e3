package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchpad-starter/launchpad/internal/auth"
	"github.com/launchpad-starter/launchpad/internal/users"
	"github.com/launchpad-starter/launchpad/internal/web"
)

// memUsers is a map-backed users.Store for handler round-trips.
type memUsers struct {
	mu      sync.Mutex
	byID    map[string]users.Record
	byEmail map[string]string
	nextID  int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]users.Record{}, byEmail: map[string]string{}}
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (users.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[email]
	if !ok {
		return users.Record{}, users.ErrNotFound
	}
	return m.byID[id], nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (users.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[id]
	if !ok {
		return users.Record{}, users.ErrNotFound
	}
	return rec, nil
}

func (m *memUsers) Create(_ context.Context, in users.CreateInput) (users.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byEmail[in.Email]; taken {
		return users.Record{}, users.ErrEmailTaken
	}
	m.nextID++
	rec := users.Record{
		ID:             fmt.Sprintf("user-%d", m.nextID),
		Email:          in.Email,
		Name:           in.Name,
		PasswordHash:   in.PasswordHash,
		Status:         in.Status,
		Role:           in.Role,
		PermVersion:    in.PermVersion,
		RoleVersion:    in.RoleVersion,
		AccountVersion: in.AccountVersion,
		CreatedAt:      time.Now(),
	}
	m.byID[rec.ID] = rec
	m.byEmail[rec.Email] = rec.ID
	return rec, nil
}

func (m *memUsers) UpdatePasswordHash(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	rec.PasswordHash = hash
	m.byID[id] = rec
	return nil
}

func (m *memUsers) UpdateStatus(_ context.Context, id string, status int16) (users.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[id]
	if !ok {
		return users.Record{}, users.ErrNotFound
	}
	rec.Status = status
	m.byID[id] = rec
	return rec, nil
}

func (m *memUsers) SyncProfile(_ context.Context, id, name, avatarURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	if name != "" {
		rec.Name = name
	}
	if avatarURL != "" {
		rec.AvatarURL = avatarURL
	}
	m.byID[id] = rec
	return nil
}

func newTestServer(t *testing.T) (*gin.Engine, *auth.Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	provider, err := auth.New(rdb, newMemUsers(), auth.Options{
		SessionSecret:      "0123456789abcdef0123456789abcdef",
		BaseURL:            "http://localhost:8080",
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
	})
	require.NoError(t, err)
	t.Cleanup(provider.Close)

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())

	h := NewHandler(provider)
	h.Register(r)
	h.RegisterAPI(r)

	return r, provider
}

func postForm(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func registerForm(email string) url.Values {
	return url.Values{
		"username": {"alice"},
		"email":    {email},
		"password": {"Str0ng!pass"},
	}
}

func sessionCookies(t *testing.T, rr *httptest.ResponseRecorder) (access, refresh *http.Cookie) {
	t.Helper()
	res := http.Response{Header: rr.Header()}
	for _, ck := range res.Cookies() {
		switch ck.Name {
		case auth.AccessCookie:
			access = ck
		case auth.RefreshCookie:
			refresh = ck
		}
	}
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	return access, refresh
}

func TestRegisterCreatesSessionAndRedirects(t *testing.T) {
	r, _ := newTestServer(t)

	rr := postForm(r, "/auth/register", registerForm("alice@example.com"))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, auth.DashboardPath, rr.Header().Get("Location"))

	access, refresh := sessionCookies(t, rr)
	assert.NotEmpty(t, access.Value)
	assert.NotEmpty(t, refresh.Value)
	assert.True(t, access.HttpOnly)
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestServer(t)

	rr := postForm(r, "/auth/register", url.Values{
		"username": {"ab"},
		"email":    {"not-an-email"},
		"password": {"weak"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Username must be at least 3 characters")
	assert.Contains(t, body, "Invalid email address")
	assert.Contains(t, body, "Password must be at least 8 characters")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := newTestServer(t)

	rr := postForm(r, "/auth/register", registerForm("alice@example.com"))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = postForm(r, "/auth/register", registerForm("alice@example.com"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "This email is already registered")
}

func TestLoginHonorsRedirectTo(t *testing.T) {
	r, _ := newTestServer(t)

	require.Equal(t, http.StatusSeeOther,
		postForm(r, "/auth/register", registerForm("alice@example.com")).Code)

	rr := postForm(r, "/auth/login?redirectTo=%2Fdashboard%2Fprojects", url.Values{
		"email":    {"alice@example.com"},
		"password": {"Str0ng!pass"},
	})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard/projects", rr.Header().Get("Location"))
}

func TestLoginRejectsOffsiteRedirect(t *testing.T) {
	r, _ := newTestServer(t)

	require.Equal(t, http.StatusSeeOther,
		postForm(r, "/auth/register", registerForm("alice@example.com")).Code)

	rr := postForm(r, "/auth/login?redirectTo=https%3A%2F%2Fevil.example", url.Values{
		"email":    {"alice@example.com"},
		"password": {"Str0ng!pass"},
	})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, auth.DashboardPath, rr.Header().Get("Location"))
}

func TestLoginBadCredentials(t *testing.T) {
	r, _ := newTestServer(t)

	rr := postForm(r, "/auth/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever1!A"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid email or password")
}

func TestLogoutClearsCookies(t *testing.T) {
	r, _ := newTestServer(t)

	reg := postForm(r, "/auth/register", registerForm("alice@example.com"))
	access, refresh := sessionCookies(t, reg)

	rr := postForm(r, "/logout", url.Values{}, access, refresh)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	res := http.Response{Header: rr.Header()}
	for _, ck := range res.Cookies() {
		if ck.Name == auth.AccessCookie || ck.Name == auth.RefreshCookie {
			assert.Empty(t, ck.Value)
			assert.Less(t, ck.MaxAge, 0)
		}
	}
}

func TestGuestGateRedirectsSignedInUsers(t *testing.T) {
	r, _ := newTestServer(t)

	reg := postForm(r, "/auth/register", registerForm("alice@example.com"))
	access, refresh := sessionCookies(t, reg)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req.AddCookie(access)
	req.AddCookie(refresh)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, auth.DashboardPath, rr.Header().Get("Location"))
}

func TestAPIRefreshRotatesTokens(t *testing.T) {
	r, _ := newTestServer(t)

	reg := postForm(r, "/auth/register", registerForm("alice@example.com"))
	_, refresh := sessionCookies(t, reg)

	rr := postForm(r, "/api/auth/refresh", url.Values{}, refresh)

	assert.Equal(t, http.StatusOK, rr.Code)
	access2, refresh2 := sessionCookies(t, rr)
	assert.NotEmpty(t, access2.Value)
	assert.NotEqual(t, refresh.Value, refresh2.Value)
}

func TestAPIRefreshWithoutCookie(t *testing.T) {
	r, _ := newTestServer(t)

	rr := postForm(r, "/api/auth/refresh", url.Values{})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAPISessionAnonymous(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"user":null`)
}

func TestAPISessionAuthenticated(t *testing.T) {
	r, _ := newTestServer(t)

	reg := postForm(r, "/auth/register", registerForm("alice@example.com"))
	access, refresh := sessionCookies(t, reg)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(access)
	req.AddCookie(refresh)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "alice@example.com")
}

func TestAPIUnknownAction(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/nonsense", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPIGoogleStartRedirectsToConsent(t *testing.T) {
	r, _ := newTestServer(t)

	rr := postForm(r, "/api/auth/google/start", url.Values{})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	loc := rr.Header().Get("Location")
	assert.Contains(t, loc, "accounts.google.com")
	assert.Contains(t, loc, "state=")

	res := http.Response{Header: rr.Header()}
	var sawState bool
	for _, ck := range res.Cookies() {
		if ck.Name == "lp_oauth_state" && ck.Value != "" {
			sawState = true
		}
	}
	assert.True(t, sawState)
}

func TestAPIGoogleCallbackRejectsStateMismatch(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=forged&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "lp_oauth_state", Value: "expected"})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, auth.LoginPath, rr.Header().Get("Location"))
}
