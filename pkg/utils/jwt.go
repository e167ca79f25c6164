package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionSigner issues and checks the bearer tokens that carry a
// questionnaire session id.
type SessionSigner struct {
	key []byte
	ttl time.Duration
}

func NewSessionSigner(secret string, ttl time.Duration) *SessionSigner {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionSigner{key: []byte(secret), ttl: ttl}
}

func (s *SessionSigner) CreateToken(sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

func (s *SessionSigner) ValidateToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	if !token.Valid {
		return nil, ErrInvalidSession
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	return claims, nil
}
