package auth

import (
	"errors"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload carried by portal tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and validates HS256 access tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// GenerateAccessToken issues a token for the caller. Login flows live
// outside this service; the CLI and tests use it to mint tokens.
func (s *TokenService) GenerateAccessToken(userID kernel.UserID, role kernel.Role) (string, error) {
	if !IsKnownRole(role) {
		return "", ErrUnknownRole().WithDetail("role", role)
	}
	now := s.now()
	claims := Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeTokenGeneration, err)
	}
	return signed, nil
}

// ValidateAccessToken parses and verifies a token into an AuthContext.
func (s *TokenService) ValidateAccessToken(tokenString string) (AuthContext, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		e := ErrInvalidToken()
		if errors.Is(err, jwt.ErrTokenExpired) {
			e = e.WithDetail("reason", "expired")
		}
		return AuthContext{}, e.WithCause(err)
	}

	role := kernel.Role(claims.Role)
	if claims.Subject == "" || !IsKnownRole(role) {
		return AuthContext{}, ErrInvalidToken().WithDetail("reason", "missing subject or role")
	}
	return AuthContext{UserID: kernel.UserID(claims.Subject), Role: role}, nil
}
