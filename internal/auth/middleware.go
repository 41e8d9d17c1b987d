package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/quangdng/go-shop-api/internal/httputil"
	"github.com/quangdng/go-shop-api/internal/requestctx"
	"github.com/quangdng/go-shop-api/internal/user"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	users        UserStore
}

func NewMiddleware(tokenService TokenService, users UserStore) *Middleware {
	return &Middleware{tokenService: tokenService, users: users}
}

// RequireAuth validates the access token from the Authorization header or
// the access cookie. When neither is usable it falls back to the remember
// cookie pair, which restores long-lived sessions after the access token
// expired.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string

		// Priority 1: Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			} else {
				httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
				return
			}
		}

		// Priority 2: Cookie (fallback)
		if token == "" {
			if cookieToken, err := GetAccessTokenFromCookie(r); err == nil {
				token = cookieToken
			}
		}

		if token != "" {
			claims, err := m.tokenService.VerifyToken(token)
			if err == nil {
				userID, err := uuid.Parse(claims.UserID)
				if err != nil {
					httputil.RespondErrorWithCode(w, "invalid user ID in token", httputil.CodeInvalidTokenUserID, http.StatusUnauthorized)
					return
				}
				ctx := requestctx.WithIdentity(r.Context(), userID, claims.Email, claims.Admin)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if !errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
				return
			}
		}

		// Priority 3: remember cookies
		u, ok := m.userFromRememberCookies(r)
		if !ok {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		ctx := requestctx.WithIdentity(r.Context(), u.ID, u.Email, u.Admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates the admin namespace. Must run after RequireAuth, which
// put the admin flag (from the token claims or the user row) on the context.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requestctx.UserID(r.Context()); !ok {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		if !requestctx.IsAdmin(r.Context()) {
			httputil.RespondErrorWithCode(w, "admin access required", httputil.CodeForbidden, http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) userFromRememberCookies(r *http.Request) (*user.User, bool) {
	idStr, token, err := GetRememberFromCookies(r)
	if err != nil {
		return nil, false
	}

	userID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, false
	}

	u, err := m.users.GetByID(r.Context(), userID)
	if err != nil {
		return nil, false
	}

	if !u.Authenticated(user.DigestRemember, token) {
		return nil, false
	}

	return u, true
}
