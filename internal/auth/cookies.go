package auth

import (
	"net/http"
	"time"
)

const (
	accessTokenCookieName   = "access_token"
	rememberTokenCookieName = "remember_token"
	rememberUserCookieName  = "remember_user"
)

// SetAccessCookie stores the short-lived access token in an HttpOnly cookie
// for browser clients.
func SetAccessCookie(w http.ResponseWriter, token string, isProduction bool, duration time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(duration.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetRememberCookies stores the persistent-login pair: the user ID and the
// plaintext remember token whose digest lives on the user record.
func SetRememberCookies(w http.ResponseWriter, userID, token string, isProduction bool, duration time.Duration) {
	maxAge := int(duration.Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     rememberUserCookieName,
		Value:    userID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     rememberTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookies expires every auth cookie.
func ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookieName, rememberUserCookieName, rememberTokenCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}

// GetAccessTokenFromCookie reads the access token cookie.
func GetAccessTokenFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(accessTokenCookieName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// GetRememberFromCookies reads the persistent-login pair. Both cookies must
// be present for the pair to be usable.
func GetRememberFromCookies(r *http.Request) (userID, token string, err error) {
	uc, err := r.Cookie(rememberUserCookieName)
	if err != nil {
		return "", "", err
	}
	tc, err := r.Cookie(rememberTokenCookieName)
	if err != nil {
		return "", "", err
	}
	return uc.Value, tc.Value, nil
}
