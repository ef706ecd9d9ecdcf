package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/application"
	"github.com/corpboard/corpboard/internal/interface/middleware"
	"github.com/corpboard/corpboard/pkg/helpers"
	"github.com/corpboard/corpboard/pkg/response"
	"github.com/corpboard/corpboard/pkg/validation"
)

type AuthHandler struct {
	Auth   *application.AuthService
	Cookie *helpers.Manager
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, cookie *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookie: cookie, Logger: logger}
}

type principalBody struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleCode string `json:"role_code"`
	RoleName string `json:"role_name"`
}

func toPrincipalBody(p *application.Principal) principalBody {
	return principalBody{
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
		RoleCode: p.RoleCode,
		RoleName: p.RoleName,
	}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, toPrincipalBody(p), "registered")
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		response.FailStatus(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, pair, err := h.Auth.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.Cookie.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, gin.H{
		"user":         toPrincipalBody(p),
		"access_token": pair.AccessToken,
	}, "logged in")
}

// Refresh POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie("refresh_token")
	if token == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.ShouldBindJSON(&body)
		token = body.RefreshToken
	}
	if token == "" {
		response.FailStatus(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	p, pair, err := h.Auth.Refresh(c.Request.Context(), token)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.Cookie.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, gin.H{
		"user":         toPrincipalBody(p),
		"access_token": pair.AccessToken,
	}, "token refreshed")
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie("refresh_token")
	if err := h.Auth.Logout(c.Request.Context(), token); err != nil {
		h.Logger.WithError(err).Warn("refresh token revoke failed")
	}
	h.Cookie.Clear(c)
	response.OK[any](c, nil, "logged out")
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		response.FailStatus(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	response.OK(c, toPrincipalBody(p), "ok")
}
