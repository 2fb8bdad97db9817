// package realtime issues short-lived tokens for the realtime messaging provider.
//
// The provider's SDK wants an auth callback passed into its client
// constructor; this package reframes that as an explicit request/response
// contract so failure surfaces as a typed result instead of a swallowed
// callback error.
package realtime

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pollsterfm/pollster/internal/shared"
)

// Default token lifetime when the request does not specify one.
const DefaultTTL = time.Hour

// TokenRequest asks the broker for a messaging token.
type TokenRequest struct {
	ClientID   string        `json:"client_id"`
	Capability string        `json:"capability,omitempty"` // channel capability string, provider syntax
	TTL        time.Duration `json:"-"`
}

// TokenResult is a granted messaging token.
type TokenResult struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Broker issues messaging tokens for authenticated clients.
type Broker interface {
	IssueToken(req TokenRequest) (*TokenResult, error)
}

// HMACBroker signs token claims locally with a server-held key, in the shape
// the messaging provider accepts as a signed token request.
type HMACBroker struct {
	signingKey []byte
	defaultTTL time.Duration
}

// NewHMACBroker creates a broker with the given signing key and default TTL.
func NewHMACBroker(signingKey string, defaultTTL time.Duration) (*HMACBroker, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("%w: realtime signing key is required", shared.ErrMissingCredentials)
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}

	return &HMACBroker{
		signingKey: []byte(signingKey),
		defaultTTL: defaultTTL,
	}, nil
}

type tokenClaims struct {
	ClientID   string `json:"client_id"`
	Capability string `json:"capability,omitempty"`
	IssuedAt   int64  `json:"iat"`
	ExpiresAt  int64  `json:"exp"`
	Nonce      string `json:"nonce"`
}

// IssueToken grants a token for the requested client.
func (b *HMACBroker) IssueToken(req TokenRequest) (*TokenResult, error) {
	if req.ClientID == "" {
		return nil, fmt.Errorf("%w: client id is required", shared.ErrMissingArgument)
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = b.defaultTTL
	}

	now := time.Now()
	claims := tokenClaims{
		ClientID:   req.ClientID,
		Capability: req.Capability,
		IssuedAt:   now.Unix(),
		ExpiresAt:  now.Add(ttl).Unix(),
		Nonce:      shared.GenerateID(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token claims: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)

	mac := hmac.New(sha256.New, b.signingKey)
	mac.Write([]byte(encoded))
	signature := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return &TokenResult{
		Token:   encoded + "." + signature,
		Expires: now.Add(ttl),
	}, nil
}

// VerifyToken checks a token's signature and expiry, returning its client id.
func (b *HMACBroker) VerifyToken(token string, now time.Time) (string, error) {
	dot := strings.LastIndexByte(token, '.')
	if dot <= 0 || dot == len(token)-1 {
		return "", fmt.Errorf("%w: malformed token", shared.ErrInvalidInput)
	}
	encoded, signature := token[:dot], token[dot+1:]

	mac := hmac.New(sha256.New, b.signingKey)
	mac.Write([]byte(encoded))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", fmt.Errorf("%w: bad token signature", shared.ErrUnauthorized)
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: malformed token payload", shared.ErrInvalidInput)
	}

	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", fmt.Errorf("%w: malformed token claims", shared.ErrInvalidInput)
	}

	if now.Unix() >= claims.ExpiresAt {
		return "", fmt.Errorf("%w: token expired", shared.ErrSessionExpired)
	}

	return claims.ClientID, nil
}
