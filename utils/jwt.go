package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const issuer = "property_listing_web"

var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token has expired")
	ErrInvalidToken     = errors.New("invalid token")
)

// Claims carries the session id of a browser session cookie.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.StandardClaims
}

// SessionSigner issues and checks HS256 session cookies.
type SessionSigner struct {
	key []byte
	ttl time.Duration
}

func NewSessionSigner(secret string, ttl time.Duration) *SessionSigner {
	return &SessionSigner{key: []byte(secret), ttl: ttl}
}

func (s *SessionSigner) TTL() time.Duration {
	return s.ttl
}

func (s *SessionSigner) Generate(sessionID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		SessionID: sessionID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.ttl).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

func (s *SessionSigner) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.key, nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				return nil, ErrInvalidSignature
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrExpired
			}
		}
		return nil, err
	}

	if !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
