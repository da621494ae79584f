// internal/pkg/auth/jwt.go
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/storefront/internal/config"
)

// SessionClaims is the payload of the session cookie. It carries only the
// session id; everything else lives in the server-side record.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionTokenManager signs and verifies session cookies
type SessionTokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokenManager creates a new session token manager
func NewSessionTokenManager(cfg *config.Config) *SessionTokenManager {
	return &SessionTokenManager{
		secret: []byte(cfg.Session.Secret),
		issuer: cfg.App.Name,
		ttl:    cfg.Session.TTL,
		now:    time.Now,
	}
}

// Sign issues a token for sessionID
func (m *SessionTokenManager) Sign(sessionID string) (string, error) {
	now := m.now().UTC()

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns the session id it carries
func (m *SessionTokenManager) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuer(m.issuer),
	)
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session token claims")
	}

	if claims.ID == "" {
		return "", fmt.Errorf("session token has no session id")
	}

	return claims.ID, nil
}
