// Package auth verifies bearer tokens and carries the authenticated
// principal through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	"github.com/tabison/suppliers/internal/platform/httpserver"
)

// Roles carried in the "role" claim.
const (
	RoleUser     = "user"
	RoleSupplier = "supplier"
	RoleAdmin    = "admin"
)

// CookieName is the cookie checked when no Authorization header is sent.
const CookieName = "token"

var (
	ErrMissingToken = errors.New("authentication required")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller has the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type roleClaims struct {
	Role string `json:"role"`
}

// Verifier validates HS256 tokens.
type Verifier struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// NewVerifier creates a Verifier for tokens signed with secret.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{key: []byte(secret), issuer: issuer, now: time.Now}
}

// Verify parses and validates raw, returning the principal it names.
func (v *Verifier) Verify(raw string) (Principal, error) {
	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var std jwt.Claims
	var custom roleClaims
	if err := tok.Claims(v.key, &std, &custom); err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := std.ValidateWithLeeway(jwt.Expected{Issuer: v.issuer, Time: v.now()}, jwt.DefaultLeeway); err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if std.Subject == "" {
		return Principal{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	role := custom.Role
	if role == "" {
		role = RoleUser
	}
	return Principal{UserID: std.Subject, Role: role}, nil
}

// Issuer signs tokens. Login flows live outside this service; the issuer is
// used by tooling and tests that need a valid token.
type Issuer struct {
	signer jose.Signer
	issuer string
	ttl    time.Duration
}

// NewIssuer creates an HS256 token issuer.
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(secret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating signer: %w", err)
	}
	return &Issuer{signer: signer, issuer: issuer, ttl: ttl}, nil
}

// Issue returns a signed token for the principal.
func (i *Issuer) Issue(p Principal) (string, error) {
	now := time.Now()
	std := jwt.Claims{
		Issuer:   i.issuer,
		Subject:  p.UserID,
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(i.ttl)),
	}
	return jwt.Signed(i.signer).Claims(std).Claims(roleClaims{Role: p.Role}).Serialize()
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by Require.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// Require wraps next so it only runs for authenticated callers holding one
// of roles (any role when roles is empty).
func (v *Verifier) Require(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			httpserver.WriteError(w, r, http.StatusUnauthorized, ErrMissingToken.Error(), nil)
			return
		}
		p, err := v.Verify(raw)
		if err != nil {
			httpserver.WriteError(w, r, http.StatusUnauthorized, ErrInvalidToken.Error(), err)
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, p.Role) {
			httpserver.WriteError(w, r, http.StatusForbidden, "insufficient role", nil)
			return
		}
		next(w, r.WithContext(WithPrincipal(r.Context(), p)))
	}
}
