package token

import (
	"context"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-assoc-admin/internal/errors"
	"github.com/jrsteele09/go-assoc-admin/users"
	"github.com/pkg/errors"
)

// Issuer mints and verifies HS256 bearer tokens. It stands in for the real
// backend in the dev server and in tests.
type Issuer struct {
	signer  Signer
	ttl     time.Duration
	revoked RevocationList
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithRevocationList replaces the in-memory revocation list.
func WithRevocationList(list RevocationList) IssuerOption {
	return func(i *Issuer) {
		if list != nil {
			i.revoked = list
		}
	}
}

func NewIssuer(secret string, ttl time.Duration, options ...IssuerOption) *Issuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	i := &Issuer{
		signer:  NewHMACSigner(secret),
		ttl:     ttl,
		revoked: NewMemoryRevocationList(),
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// Issue creates a token for the user valid for the issuer's TTL.
func (i *Issuer) Issue(user *users.User) (string, time.Time, error) {
	expires := NowTimeFunc().Add(i.ttl)
	signed, err := i.IssueWithExpiry(user, expires)
	return signed, expires, err
}

// IssueWithExpiry creates a token with an explicit expiry.
func (i *Issuer) IssueWithExpiry(user *users.User, expires time.Time) (string, error) {
	if user == nil {
		return "", errors.New("[Issuer.Issue] user is required")
	}
	claims := jwtlib.MapClaims{
		"sub":   user.ID,
		"role":  string(user.Role),
		"name":  user.Name,
		"email": user.Email,
		"iat":   NowTimeFunc().Unix(),
		"exp":   expires.Unix(),
		"jti":   uuid.New().String(),
	}
	return i.signer.Sign(claims)
}

// Verify checks signature, expiry and revocation and returns the claims.
func (i *Issuer) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	parsed, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, i.signer.GetVerificationKey,
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, apperrors.New(apperrors.ErrTokenExpired, "", err)
		}
		return nil, apperrors.New(apperrors.ErrDecode, "", err)
	}
	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.New(apperrors.ErrDecode, "error extracting claims from token", nil)
	}
	if jti, _ := mapClaims["jti"].(string); jti != "" {
		revoked, err := i.revoked.IsRevoked(ctx, jti)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrServer, "revocation check failed", err)
		}
		if revoked {
			return nil, apperrors.New(apperrors.ErrSessionExpired, "token revoked", nil)
		}
	}
	return claimsFromMap(mapClaims)
}

// Revoke marks a verified token as logged out.
func (i *Issuer) Revoke(ctx context.Context, rawToken string) error {
	claims, err := i.Verify(ctx, rawToken)
	if err != nil {
		return errors.Wrap(err, "[Issuer.Revoke] verify")
	}
	jti, _ := claims.Raw["jti"].(string)
	if jti == "" {
		return errors.New("[Issuer.Revoke] token missing jti claim")
	}
	return i.revoked.Revoke(ctx, jti, time.Unix(claims.ExpiresAt, 0))
}
