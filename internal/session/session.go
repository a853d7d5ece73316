// Package session issues and validates the signed tokens that tie an HTTP
// or websocket caller to one editing session. There are no user accounts:
// a token only proves the caller created the session it names.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vectra/vectra/engine-go/internal/typeid"
)

// PlaygroundSessionID is the well-known session that allows anonymous
// access without a token.
const PlaygroundSessionID = "sess_playground"

// TokenTTL is how long a session token stays valid.
const TokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for tokens that fail signature or claim
// validation.
var ErrInvalidToken = errors.New("invalid session token")

type Service struct {
	secret []byte
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Create mints a new session id and a token bound to it.
func (s *Service) Create() (sessionID, token string, err error) {
	sessionID = typeid.NewSessionID()
	token, err = s.issueToken(sessionID)
	if err != nil {
		return "", "", err
	}
	return sessionID, token, nil
}

// Validate checks the token and returns the session id it is bound to.
func (s *Service) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	sessionID, ok := claims["sub"].(string)
	if !ok {
		return "", ErrInvalidToken
	}
	// The subject must be a well-formed session id, not just any string the
	// signer put in the claim.
	if err := typeid.Validate(sessionID, typeid.PrefixSession); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return sessionID, nil
}

func (s *Service) issueToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": sessionID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
