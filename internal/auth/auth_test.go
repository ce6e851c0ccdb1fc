package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workflow-copilot/backend/internal/config"
	"workflow-copilot/backend/internal/logging"
	"workflow-copilot/backend/pkg/models"
)

type fakeUserStore struct {
	ensured map[string]string
	err     error
}

func (f *fakeUserStore) Ensure(ctx context.Context, id, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.ensured == nil {
		f.ensured = make(map[string]string)
	}
	f.ensured[id] = email
	return &models.User{ID: id, Email: email}, nil
}

// fakeJWT builds an unsigned token carrying the given claims. Only the
// payload segment matters for the unverified decode path.
func fakeJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func newTestAuth(t *testing.T, bypass bool, users UserStore) *Auth {
	t.Helper()
	cfg := &config.Config{Environment: "DEV"}
	cfg.Auth.DevModeBypass = bypass

	a, err := New(context.Background(), cfg, users, logging.NewLogger())
	require.NoError(t, err)
	return a
}

func TestRequireAuthBearerToken(t *testing.T) {
	users := &fakeUserStore{}
	a := newTestAuth(t, false, users)

	var got Principal
	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workflows", nil)
	req.Header.Set("Authorization", "Bearer "+fakeJWT(t, map[string]any{"sub": "user-1", "email": "u@example.com"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "u@example.com", got.Email)
	assert.Equal(t, "u@example.com", users.ensured["user-1"])
}

func TestRequireAuthSessionCookie(t *testing.T) {
	a := newTestAuth(t, false, &fakeUserStore{})

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "id_token", Value: fakeJWT(t, map[string]any{"sub": "cookie-user"})})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthMissingCredential(t *testing.T) {
	a := newTestAuth(t, false, &fakeUserStore{})

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthMalformedToken(t *testing.T) {
	a := newTestAuth(t, false, &fakeUserStore{})

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsTokenWithoutSubject(t *testing.T) {
	a := newTestAuth(t, false, &fakeUserStore{})

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+fakeJWT(t, map[string]any{"email": "nobody@example.com"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthDevBypass(t *testing.T) {
	users := &fakeUserStore{}
	a := newTestAuth(t, true, users)

	var got Principal
	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev-user", got.UserID)
	assert.Equal(t, "dev@localhost", users.ensured["dev-user"])
}

func TestLogoutClearsSession(t *testing.T) {
	a := newTestAuth(t, false, &fakeUserStore{})

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	a.LogoutHandler(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "id_token", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}
