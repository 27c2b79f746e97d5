package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the email/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service provides registration, login and token verification.
type Service struct {
	users      UserRepository
	secret     string
	tokenTTL   time.Duration
	bcryptCost int
}

// NewService creates a new auth Service.
func NewService(users UserRepository, secret string, tokenTTL time.Duration, bcryptCost int) *Service {
	return &Service{
		users:      users,
		secret:     secret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user with a bcrypt password hash and returns the user
// together with a fresh access token.
func (s *Service) Register(ctx context.Context, email, name, password string) (*User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := GenerateToken(u.ID, u.Email, u.Name, s.secret, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Login verifies the email/password pair and returns the user with a fresh
// access token. Lookup failures and hash mismatches both surface as
// ErrInvalidCredentials so the response does not reveal which part failed.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateToken(u.ID, u.Email, u.Name, s.secret, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Authenticate resolves a raw bearer token to an Identity.
func (s *Service) Authenticate(_ context.Context, rawToken string) (*Identity, error) {
	claims, err := ParseToken(rawToken, s.secret)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID: userID,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
