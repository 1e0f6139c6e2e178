package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/canteen/internal/pkg/auth"
	"github.com/polkiloo/canteen/internal/server/http/dto"
)

const (
	// PrincipalContextKey is a gin context key for the authenticated principal.
	PrincipalContextKey = "principal"
	authCookieName      = "canteen_admin_token"
)

// TokenParser resolves the principal behind an admin token.
type TokenParser interface {
	ParseToken(token string) (pkgAuth.Principal, error)
}

// AdminRequired rejects requests that do not carry a valid admin token and
// attaches the resolved principal to both the gin and the request context.
func AdminRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		principal, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abortUnauthorized(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Reason:  "persistence_failure",
				Message: "internal error",
			})
			return
		}
		if !principal.IsAdmin() {
			abortUnauthorized(c)
			return
		}

		c.Set(PrincipalContextKey, principal)
		c.Request = c.Request.WithContext(pkgAuth.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// CurrentPrincipal returns the principal attached by AdminRequired.
func CurrentPrincipal(c *gin.Context) (pkgAuth.Principal, bool) {
	val, ok := c.Get(PrincipalContextKey)
	if !ok {
		return pkgAuth.Principal{}, false
	}
	p, ok := val.(pkgAuth.Principal)
	return p, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Reason:  "unauthorized",
		Message: "authentication required",
	})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes the staff token as an HttpOnly, SameSite=Strict cookie
// so that cross-site forms cannot ride on the admin session.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
