package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndReadRememberCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetRememberCookies(rec, "some-user-id", "some-token", false, 720*time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	userID, token, err := GetRememberFromCookies(req)
	require.NoError(t, err)
	assert.Equal(t, "some-user-id", userID)
	assert.Equal(t, "some-token", token)
}

func TestRememberCookiesRequireBothHalves(t *testing.T) {
	rec := httptest.NewRecorder()
	SetRememberCookies(rec, "some-user-id", "some-token", false, 720*time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == rememberTokenCookieName {
			continue
		}
		req.AddCookie(c)
	}

	_, _, err := GetRememberFromCookies(req)
	assert.Error(t, err)
}

func TestAccessCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetAccessCookie(rec, "the-access-token", true, 15*time.Minute)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	token, err := GetAccessTokenFromCookie(req)
	require.NoError(t, err)
	assert.Equal(t, "the-access-token", token)
}

func TestClearAuthCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearAuthCookies(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 3)
	for _, c := range cookies {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}
