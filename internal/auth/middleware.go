package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gradebook/internal/identity"
)

// SessionCookie is the cookie holding the session JWT.
const SessionCookie = "gradebook_session"

// LoginPath is where every failed role check lands. Not logged in and
// wrong role are deliberately indistinguishable to the caller.
const LoginPath = "/login"

const userContextKey = "current_user"

// UserLoader resolves the account a session token points at.
type UserLoader interface {
	ByID(ctx context.Context, id string) (*identity.User, error)
}

// RequireRole authenticates the request and enforces the role. The token
// is read from the session cookie, falling back to a bearer header. Any
// failure redirects to the login page.
func RequireRole(signingKey, issuer string, users UserLoader, role identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := sessionToken(c)
		if tokenStr == "" {
			redirectToLogin(c)
			return
		}
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			redirectToLogin(c)
			return
		}
		user, err := users.ByID(c.Request.Context(), claims.Subject)
		if err != nil || user == nil || !user.Active {
			redirectToLogin(c)
			return
		}
		if user.Role != role || string(user.Role) != claims.Role {
			redirectToLogin(c)
			return
		}
		c.Set(userContextKey, *user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by RequireRole.
func CurrentUser(c *gin.Context) (identity.User, bool) {
	val, ok := c.Get(userContextKey)
	if !ok {
		return identity.User{}, false
	}
	user, ok := val.(identity.User)
	return user, ok
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	authz := c.GetHeader("Authorization")
	if authz != "" && strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, LoginPath)
	c.Abort()
}
