package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
)

// ErrInvalidToken is returned for any bearer token that does not yield an actor
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenService issues and verifies HS256 bearer tokens carrying the actor id and role
type TokenService struct {
	secret       []byte
	issuer       string
	timeProvider coreport.TimeProvider
}

// NewTokenService creates a token service
func NewTokenService(secret, issuer string, timeProvider coreport.TimeProvider) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, timeProvider: timeProvider}
}

// Issue signs a token for actor valid for ttl
func (s *TokenService) Issue(actor entity.Actor, ttl time.Duration) (string, error) {
	now := s.timeProvider.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: string(actor.Role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// Verify parses a token and returns the actor it was issued for.
// The system role is never accepted from a token.
func (s *TokenService) Verify(token string) (entity.Actor, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.timeProvider.Now),
	)
	if err != nil {
		return entity.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return entity.Actor{}, ErrInvalidToken
	}

	role := entity.Role(c.Role)
	if role != entity.RoleTeacher && role != entity.RoleStudent {
		return entity.Actor{}, fmt.Errorf("%w: role %q", ErrInvalidToken, c.Role)
	}
	return entity.Actor{ID: c.Subject, Role: role}, nil
}
