// Package auth issues and verifies the bearer tokens that identify callers.
//
// A token is a fernet token whose plaintext is the caller's principal, so
// only holders of the ledger key can mint identities.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
)

// MaxPrincipalLength bounds the principal carried by a token.
const MaxPrincipalLength = 128

// TokenIssuer signs and verifies principal tokens.
type TokenIssuer struct {
	keys []*fernet.Key
	ttl  time.Duration
}

// NewTokenIssuer creates a TokenIssuer from one or more base64 fernet keys.
// The first key signs new tokens; all keys verify, so keys can be rotated.
// A ttl of 0 accepts tokens of any age.
func NewTokenIssuer(ttl time.Duration, encodedKeys ...string) (*TokenIssuer, error) {
	if len(encodedKeys) == 0 {
		return nil, fmt.Errorf("at least one token key is required")
	}

	keys, err := fernet.DecodeKeys(encodedKeys...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode token key: %w", err)
	}

	return &TokenIssuer{keys: keys, ttl: ttl}, nil
}

// GenerateKey returns a new random key in its base64 form.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return k.Encode(), nil
}

// Issue returns a token naming principal.
func (i *TokenIssuer) Issue(principal string) (string, error) {
	if err := validPrincipal(principal); err != nil {
		return "", err
	}

	tok, err := fernet.EncryptAndSign([]byte(principal), i.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(tok), nil
}

// Verify returns the principal named by token, or ErrInvalidToken if the
// token was not signed with a known key, has expired or is malformed.
func (i *TokenIssuer) Verify(token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), i.ttl, i.keys)
	if msg == nil {
		return "", apperrors.ErrInvalidToken
	}

	principal := string(msg)
	if err := validPrincipal(principal); err != nil {
		return "", apperrors.ErrInvalidToken
	}
	return principal, nil
}

func validPrincipal(p string) error {
	if p == "" || len(p) > MaxPrincipalLength || strings.TrimSpace(p) != p {
		return fmt.Errorf("invalid principal %q", p)
	}
	return nil
}
