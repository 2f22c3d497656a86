package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/fieldops-backend/internal/modules/user"
	"github.com/georgemunganga/fieldops-backend/internal/table"
)

type service struct {
	userRepo user.Repository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a new auth service that signs HS256 tokens with secret.
func NewService(userRepo user.Repository, secret []byte, ttl time.Duration) Service {
	return &service{userRepo: userRepo, secret: secret, ttl: ttl, now: time.Now}
}

func (s *service) Login(ctx context.Context, email, password string) (*Token, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, table.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expirationTime := s.now().Add(s.ttl)
	claims := &jwt.StandardClaims{
		Subject:   u.ID.String(),
		IssuedAt:  s.now().Unix(),
		ExpiresAt: expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Token{Token: tokenString, ExpiresAt: expirationTime.UTC()}, nil
}
