package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medina-negoce/medina-erp/internal/shared"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 12 * time.Hour

// Claims is the token payload. Role rides along so request handling does
// not need a user lookup.
type Claims struct {
	Nom  string      `json:"nom"`
	Role shared.Role `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	repo   Repository
	secret []byte
}

func NewService(repo Repository, secret string) *Service {
	return &Service{repo: repo, secret: []byte(secret)}
}

// Authenticate validates credentials and issues a signed token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(TokenTTL)
	claims := Claims{
		Nom:  user.Nom,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ParseToken verifies a token and returns the identity it carries.
func (s *Service) ParseToken(tokenString string) (shared.Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return shared.Identity{}, shared.ErrInvalidCredentials
	}

	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return shared.Identity{}, shared.ErrInvalidCredentials
	}
	return shared.Identity{UserID: userID, Name: claims.Nom, Role: claims.Role}, nil
}

// Me loads the account behind an identity.
func (s *Service) Me(ctx context.Context, userID int64) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}
