package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/Alwil17/mr-wallet-api/internal/config"
	"github.com/Alwil17/mr-wallet-api/internal/identity"
)

// Service issues and rotates tokens on top of the identity service.
type Service struct {
	cfg      config.Config
	identity *identity.Service
	tokens   TokenStore
}

// NewService builds an auth service.
func NewService(cfg config.Config, identityService *identity.Service, tokens TokenStore) *Service {
	return &Service{cfg: cfg, identity: identityService, tokens: tokens}
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (s *Service) issuePair(ctx context.Context, userID, email string) (TokenPair, error) {
	access, err := SignAccessToken(s.cfg.JWTSecret, userID, email, s.cfg.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := newOpaqueToken()
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.tokens.Save(ctx, refresh, userID, s.cfg.RefreshTokenTTL); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, input identity.RegisterInput) (identity.User, TokenPair, error) {
	user, err := s.identity.Register(ctx, input)
	if err != nil {
		return identity.User{}, TokenPair{}, err
	}
	pair, err := s.issuePair(ctx, user.ID, user.Email)
	return user, pair, err
}

// Login exchanges credentials for a token pair.
func (s *Service) Login(ctx context.Context, creds identity.Credentials) (identity.User, TokenPair, error) {
	user, err := s.identity.Authenticate(ctx, creds)
	if err != nil {
		return identity.User{}, TokenPair{}, err
	}
	pair, err := s.issuePair(ctx, user.ID, user.Email)
	return user, pair, err
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair issued. A reused token fails.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := s.tokens.Lookup(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	user, err := s.identity.Get(ctx, userID)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return TokenPair{}, err
	}
	return s.issuePair(ctx, user.ID, user.Email)
}

// Logout revokes all refresh tokens of a user. Outstanding access tokens
// expire naturally.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.tokens.RevokeAllForUser(ctx, userID)
}

// Verify parses an access token and returns its claims.
func (s *Service) Verify(raw string) (Claims, error) {
	return ParseAccessToken(s.cfg.JWTSecret, raw)
}

func newOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
