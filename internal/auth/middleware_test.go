package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/go-shop-api/internal/requestctx"
)

func newTestMiddleware(t *testing.T) (*Middleware, *PasetoService, *fakeUserStore) {
	t.Helper()

	pasetoSvc, err := NewPasetoService(testKey())
	require.NoError(t, err)

	store := newFakeUserStore()
	return NewMiddleware(pasetoSvc, store), pasetoSvc, store
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthBearerToken(t *testing.T) {
	mw, pasetoSvc, _ := newTestMiddleware(t)

	userID := uuid.New()
	token, err := pasetoSvc.CreateToken(userID, "alice@example.com", false, 15*time.Minute)
	require.NoError(t, err)

	var gotID uuid.UUID
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = requestctx.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotID)
}

func TestRequireAuthRejectsMissingCredentials(t *testing.T) {
	mw, _, _ := newTestMiddleware(t)

	handler := mw.RequireAuth(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminUsesTokenClaim(t *testing.T) {
	mw, pasetoSvc, _ := newTestMiddleware(t)

	handler := mw.RequireAuth(mw.RequireAdmin(okHandler()))

	adminToken, err := pasetoSvc.CreateToken(uuid.New(), "admin@example.com", true, 15*time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	userToken, err := pasetoSvc.CreateToken(uuid.New(), "alice@example.com", false, 15*time.Minute)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminWithoutIdentity(t *testing.T) {
	mw, _, _ := newTestMiddleware(t)

	handler := mw.RequireAdmin(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
