package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/listenupapp/bookshelf/internal/domain"
)

const (
	tokenIssuer   = "bookshelf"
	tokenAudience = "bookshelf-web"
)

// SessionClaims are the decrypted contents of a session cookie.
type SessionClaims struct {
	SessionID  string    `json:"sub"`
	UserID     int64     `json:"user_id"`
	Remember   bool      `json:"remember"`
	Issuer     string    `json:"iss"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// SessionTokens seals session identifiers into PASETO v4.local tokens so the
// cookie value is opaque and tamper-evident.
type SessionTokens struct {
	key paseto.V4SymmetricKey
}

// NewSessionTokens creates a token sealer from a 32-byte key.
func NewSessionTokens(key []byte) (*SessionTokens, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("session key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &SessionTokens{key: symmetricKey}, nil
}

// Issue encrypts a token for the session. The token expires with the session.
func (s *SessionTokens) Issue(session *domain.Session) string {
	token := paseto.NewToken()

	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(session.ID)
	token.SetIssuedAt(session.CreatedAt)
	token.SetNotBefore(session.CreatedAt)
	token.SetExpiration(session.ExpiresAt)
	token.SetJti(uuid.NewString())

	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("user_id", session.UserID)
	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("remember", session.Remember)

	return token.V4Encrypt(s.key, nil)
}

// Verify decrypts a session token and checks issuer, audience and expiry.
func (s *SessionTokens) Verify(tokenString string) (*SessionClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.key, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims SessionClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("invalid token: missing subject")
	}

	return &claims, nil
}
