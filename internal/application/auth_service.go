package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/pkg/apperr"
	"github.com/corpboard/corpboard/pkg/helpers"
)

// AuthService handles login, registration, and the refresh-token lifecycle.
// Refresh tokens are stored as SHA-256 hashes and rotated on every refresh.
type AuthService struct {
	repos  repository.Set
	jwt    *helpers.JWTManager
	logger *logrus.Logger
}

func NewAuthService(repos repository.Set, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{repos: repos, jwt: jwt, logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// Register creates a user with the default USER role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Principal, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if existing, err := s.repos.Users.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, apperr.BadRequest("username already taken")
	} else if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}
	if existing, err := s.repos.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperr.BadRequest("email already registered")
	} else if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}

	role, err := s.repos.Roles.GetByCode(ctx, entity.RoleUser)
	if err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		IsActive:     true,
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	return LoadPrincipal(ctx, s.repos, u.ID)
}

// Login validates username/password and issues a token pair. The refresh
// token hash is persisted for later rotation and revocation.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Principal, TokenPair, error) {
	u, err := s.repos.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, TokenPair{}, apperr.Unauthorized("invalid credentials")
		}
		return nil, TokenPair{}, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, TokenPair{}, apperr.Unauthorized("invalid credentials")
	}
	if u.IsLocked {
		return nil, TokenPair{}, apperr.Forbidden("account is locked")
	}
	if !u.IsActive {
		return nil, TokenPair{}, apperr.Forbidden("account is inactive")
	}

	p, err := LoadPrincipal(ctx, s.repos, u.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issueTokens(ctx, p)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return p, pair, nil
}

// Refresh rotates the presented refresh token: the old one is revoked and a
// fresh pair is issued. Reuse of a revoked token is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Principal, TokenPair, error) {
	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}

	stored, err := s.repos.RefreshTokens.GetByHash(ctx, helpers.HashToken(refreshToken))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, TokenPair{}, apperr.Unauthorized("refresh token not recognized")
		}
		return nil, TokenPair{}, err
	}
	if stored.UserID != userID || !stored.Usable(time.Now()) {
		return nil, TokenPair{}, apperr.Unauthorized("refresh token expired or revoked")
	}

	p, err := LoadPrincipal(ctx, s.repos, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindForbidden {
			return nil, TokenPair{}, apperr.Unauthorized("account no longer active")
		}
		return nil, TokenPair{}, err
	}
	if p.IsLocked {
		return nil, TokenPair{}, apperr.Unauthorized("account is locked")
	}

	if err := s.repos.RefreshTokens.Revoke(ctx, stored.ID); err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issueTokens(ctx, p)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return p, pair, nil
}

// Logout revokes the presented refresh token. Unknown tokens are ignored so
// logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	stored, err := s.repos.RefreshTokens.GetByHash(ctx, helpers.HashToken(refreshToken))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}
	return s.repos.RefreshTokens.Revoke(ctx, stored.ID)
}

func (s *AuthService) issueTokens(ctx context.Context, p *Principal) (TokenPair, error) {
	access, aexp, err := s.jwt.GenerateAccessToken(p.ID, p.RoleCode)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", p.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.jwt.GenerateRefreshToken(p.ID, p.RoleCode)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", p.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}
	rec := &entity.RefreshToken{
		UserID:    p.ID,
		TokenHash: helpers.HashToken(refresh),
		ExpiresAt: rexp,
	}
	if err := s.repos.RefreshTokens.Create(ctx, rec); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}
