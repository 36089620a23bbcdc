package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"shortdrama/config"
	"shortdrama/dto"
	"shortdrama/entities"
	"shortdrama/repository"
)

type TokenIssuer interface {
	IssueUser(userId uuid.UUID) (string, error)
	IssueAdmin() (string, error)
}

type AuthService interface {
	Guest(ctx context.Context) (*dto.GuestSession, error)
	AdminLogin(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	repo   repository.Repository
	tokens TokenIssuer
	cfg    *config.Config
}

func NewAuthService(repo repository.Repository, tokens TokenIssuer, cfg *config.Config) AuthService {
	return &authService{repo: repo, tokens: tokens, cfg: cfg}
}

// Guest creates an anonymous account with the starting balance.
func (s *authService) Guest(ctx context.Context) (*dto.GuestSession, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	guestKey := hex.EncodeToString(buf)

	user := &entities.User{
		IsGuest:  true,
		GuestKey: &guestKey,
		Coins:    s.cfg.Economy.GuestCoins,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	token, err := s.tokens.IssueUser(user.ID)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("guest created")
	return &dto.GuestSession{
		Token: token,
		User:  dto.GuestUser{Id: user.ID, Coins: user.Coins},
	}, nil
}

func (s *authService) AdminLogin(ctx context.Context, email, password string) (string, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.Auth.AdminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Auth.AdminPassword)) == 1
	if s.cfg.Auth.AdminEmail == "" || !emailOK || !passOK {
		zerolog.Ctx(ctx).Warn().Str("email", email).Msg("admin login failed")
		return "", ErrInvalidCredentials
	}
	zerolog.Ctx(ctx).Info().Str("email", email).Msg("admin login")
	return s.tokens.IssueAdmin()
}
