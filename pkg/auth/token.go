package auth

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Token verification errors. Handlers map these to distinct 401 messages
// without leaking verification internals to the client.
var (
	ErrNoSecret     = errors.New("auth: signing secret not configured")
	ErrTokenMissing = errors.New("auth: token missing")
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// Claims is the JWT payload carried by issued tokens.
type Claims struct {
	AccountID int64  `json:"account_id"`
	Email     string `json:"email"`
	jwtlib.RegisteredClaims
}

// Tokens issues and verifies HS256-signed JWTs with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token issuer. TTL of zero means DefaultTokenTTL.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for the account.
func (t *Tokens) Issue(accountID int64, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. Expiry is
// reported as ErrTokenExpired; every other failure (bad signature, wrong
// algorithm, malformed payload) collapses to ErrTokenInvalid.
func (t *Tokens) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	parsed, err := jwtlib.ParseWithClaims(token, &Claims{}, func(tok *jwtlib.Token) (interface{}, error) {
		return t.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}))
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.AccountID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
