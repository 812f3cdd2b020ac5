package flows

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
)

// ErrMalformedToken is returned when a token cannot be decoded.
var ErrMalformedToken = errors.New("malformed token")

// TokenInfo describes the claims of an access or refresh token.
type TokenInfo struct {
	// Fingerprint identifies the token without revealing it.
	Fingerprint string
	Subject     string
	UserID      string
	TokenType   string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the token expired before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// InspectToken decodes the claims of token without verifying its signature.
// It is for display only.
func InspectToken(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var info TokenInfo
	info.Fingerprint = Fingerprint(token)
	info.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if v, ok := claims["token_type"].(string); ok {
		info.TokenType = v
	}
	switch v := claims["user_id"].(type) {
	case string:
		info.UserID = v
	case float64:
		info.UserID = fmt.Sprintf("%.0f", v)
	}
	return info, nil
}

// Fingerprint returns the base58 SHA-256 digest of token.
func Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base58.Encode(hash[:])
}
