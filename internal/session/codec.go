// Package session implements stateless cookie sessions. Authentication state
// is carried entirely in a signed token held by the client; the server keeps
// no session table, so a session cannot be revoked before it expires.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MaxAge is how long an issued session stays valid.
const MaxAge = 30 * 24 * time.Hour

// ErrInvalidSession is returned by Parse for any missing, tampered or
// expired token. Callers treat it as "not logged in", never as a failure.
var ErrInvalidSession = errors.New("invalid session")

// Codec signs and verifies session tokens with a server-held secret.
type Codec struct {
	secret []byte
	maxAge time.Duration
	parser *jwt.Parser
}

// NewCodec creates a session codec. The secret must be validated at process
// startup; an empty secret here is a programming error.
func NewCodec(secret string) *Codec {
	if secret == "" {
		panic("session: empty signing secret")
	}
	return &Codec{
		secret: []byte(secret),
		maxAge: MaxAge,
		// strict decoding rejects tokens whose base64 segments differ
		// from what was signed, even when the padding bits still decode
		parser: jwt.NewParser(jwt.WithStrictDecoding()),
	}
}

// Issue encodes and signs a token carrying the given user id.
func (c *Codec) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Parse verifies the token's signature and freshness and returns the user id
// it carries. Any failure yields ErrInvalidSession.
func (c *Codec) Parse(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidSession
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := c.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidSession
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
