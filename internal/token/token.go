// Package token implements the session token service: signed, time-bound
// bearer credentials plus a revocation set for logout before natural
// expiry.
package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the optional cookie fallback for clients that do not set
// the Authorization header.
const CookieName = "jokehub_token"

// ErrInvalidToken covers every non-acceptable incoming token: malformed,
// bad signature, expired, or revoked. Callers get no finer distinction.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the minimal claim set downstream authorization needs.
type Claims struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Provider string `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// Service issues, validates, and revokes session tokens. The signing
// secret is process-wide: rotating it invalidates all outstanding tokens
// implicitly.
type Service struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	revoked  RevocationStore

	now func() time.Time // overridable in tests
}

// NewService builds the token service. An empty secret is a fatal
// configuration error, reported here so startup fails fast.
func NewService(secret, issuer, audience string, ttl time.Duration, revoked RevocationStore) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	return &Service{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		revoked:  revoked,
		now:      time.Now,
	}, nil
}

// Generate signs a session token for the given subject.
func (s *Service) Generate(subject, email, name, role, provider string) (string, error) {
	now := s.now()
	claims := Claims{
		Email:    email,
		Name:     name,
		Role:     role,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tk.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: signing failed: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, expiry, issuer/audience, and the
// revocation set. A missing or garbled token yields ErrInvalidToken,
// never a panic or a raw parse error.
func (s *Service) Validate(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoked.IsRevoked(ctx, hashToken(raw))
	if err != nil {
		return nil, fmt.Errorf("token: revocation lookup failed: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Invalidate adds the token to the revocation set until its natural
// expiry, after which the entry is pruned by TTL.
func (s *Service) Invalidate(ctx context.Context, raw string) error {
	claims, err := s.parse(raw)
	if err != nil {
		return err
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	return s.revoked.Revoke(ctx, hashToken(raw), ttl)
}

func (s *Service) parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	tk, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !tk.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// FromRequest extracts the bearer token from the Authorization header,
// falling back to the session cookie. Empty string when absent.
func FromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return ""
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// hashToken derives the revocation key. Hashing bounds the key size and
// keeps raw credentials out of the store.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
