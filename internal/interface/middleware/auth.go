package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/helpers"
	"github.com/corpboard/corpboard/pkg/response"
)

const CtxPrincipalKey = "principal"

// tokenFrom reads the access token from the cookie, falling back to a
// bearer Authorization header for API clients.
func tokenFrom(c *gin.Context) string {
	if tok, err := c.Cookie("access_token"); err == nil && tok != "" {
		return tok
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Auth validates the access token, loads the principal from the database and
// stores it in the Gin context. Locked accounts are rejected outright.
func Auth(repos repository.Set, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			response.FailStatus(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.FailStatus(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			response.FailStatus(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		p, err := application.LoadPrincipal(c.Request.Context(), repos, userID)
		if err != nil {
			response.Fail(c, err)
			return
		}
		if p.IsLocked {
			response.FailStatus(c, http.StatusForbidden, "account is locked", nil)
			return
		}
		c.Set(CtxPrincipalKey, p)
		c.Set("userID", claims.Subject) // for rate-limit keys
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Auth, or nil.
func PrincipalFrom(c *gin.Context) *application.Principal {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*application.Principal)
	return p
}

// RequireAdmin allows only the ADMIN role past.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if p == nil {
			response.FailStatus(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		if !p.IsAdmin() {
			response.FailStatus(c, http.StatusForbidden, "admin access required", nil)
			return
		}
		c.Next()
	}
}

// RequireAdminPrivilege allows ADMIN and MANAGER past.
func RequireAdminPrivilege() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if p == nil {
			response.FailStatus(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		if !p.HasAdminPrivilege() {
			response.FailStatus(c, http.StatusForbidden, "manager access required", nil)
			return
		}
		c.Next()
	}
}
