package token

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"time"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	issuer   = "shortdrama-api"
	userTTL  = 30 * 24 * time.Hour
	adminTTL = 12 * time.Hour
)

type UserClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies the three bearer namespaces: viewer, admin and
// worker. Viewer and admin tokens use separate secrets.
type Service struct {
	userSecret  []byte
	adminSecret []byte
	workerToken []byte
	now         func() time.Time
}

func NewService(userSecret, adminSecret, workerToken string) *Service {
	return &Service{
		userSecret:  []byte(userSecret),
		adminSecret: []byte(adminSecret),
		workerToken: []byte(workerToken),
		now:         time.Now,
	}
}

func (s *Service) IssueUser(userId uuid.UUID) (string, error) {
	now := s.now()
	claims := &UserClaims{
		UserID: userId.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(userTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userId.String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.userSecret)
}

func (s *Service) IssueAdmin() (string, error) {
	now := s.now()
	claims := &AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.adminSecret)
}

func (s *Service) VerifyUser(raw string) (uuid.UUID, error) {
	claims := &UserClaims{}
	if err := s.parse(raw, claims, s.userSecret); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

func (s *Service) VerifyAdmin(raw string) error {
	claims := &AdminClaims{}
	if err := s.parse(raw, claims, s.adminSecret); err != nil {
		return err
	}
	if claims.Role != "admin" {
		return ErrInvalidToken
	}
	return nil
}

func (s *Service) VerifyWorker(raw string) bool {
	return len(s.workerToken) > 0 && subtle.ConstantTimeCompare([]byte(raw), s.workerToken) == 1
}

func (s *Service) parse(raw string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return errors.Join(ErrInvalidToken, err)
	}
	return nil
}
