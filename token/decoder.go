package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-assoc-admin/internal/errors"
	"github.com/jrsteele09/go-assoc-admin/internal/utils"
	"github.com/jrsteele09/go-assoc-admin/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims are the decoded payload fields of a bearer token.
type Claims struct {
	Subject   string         // Users unique ID
	Role      users.RoleType // Role assigned to the user
	Name      string         // Display name
	Email     string         // Email address, when the backend includes it
	ExpiresAt int64          // Expiry in epoch seconds
	Raw       map[string]any // Every claim as decoded, including ones the console ignores
}

// Decode parses a bearer token locally WITHOUT verifying its signature. The
// claims are a UI hint only; the backend re-checks every request.
// Malformed input never panics and always yields an error wrapping ErrDecode.
func Decode(rawToken string) (*Claims, error) {
	rawToken = strings.TrimSpace(rawToken)
	if strings.Count(rawToken, ".") != 2 {
		return nil, apperrors.New(apperrors.ErrDecode, "token must have three segments", nil)
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, apperrors.New(apperrors.ErrDecode, "", err)
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, apperrors.New(apperrors.ErrDecode, "error extracting claims", nil)
	}
	return claimsFromMap(mapClaims)
}

// IsExpired reports whether now is at or past the claims' expiry.
func IsExpired(claims *Claims, now time.Time) bool {
	if claims == nil {
		return true
	}
	return now.Unix() >= claims.ExpiresAt
}

// DecodeValid decodes a token and rejects it when expired.
func DecodeValid(rawToken string) (*Claims, error) {
	claims, err := Decode(rawToken)
	if err != nil {
		return nil, err
	}
	if IsExpired(claims, NowTimeFunc()) {
		return claims, apperrors.New(apperrors.ErrTokenExpired, "", nil)
	}
	return claims, nil
}

func claimsFromMap(mapClaims jwtlib.MapClaims) (*Claims, error) {
	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return nil, apperrors.New(apperrors.ErrDecode, "invalid exp claim", err)
	}
	if exp == nil {
		return nil, apperrors.New(apperrors.ErrDecode, "missing exp claim", nil)
	}

	sub, _ := mapClaims.GetSubject()
	if sub == "" {
		// Some backends put the user id under "id" or "userId"
		sub = firstString(mapClaims, "id", "userId", "user_id")
	}

	role := firstString(mapClaims, "role")
	if role == "" {
		if claimRoles, ok := mapClaims["roles"].([]any); ok {
			if roles := utils.ToStringSlice(claimRoles); len(roles) > 0 {
				role = roles[0]
			}
		}
	}

	email := firstString(mapClaims, "email")
	return &Claims{
		Subject:   sub,
		Role:      users.RoleType(role),
		Name:      firstNonEmpty(firstString(mapClaims, "name", "username"), email),
		Email:     email,
		ExpiresAt: exp.Unix(),
		Raw:       map[string]any(mapClaims),
	}, nil
}

func firstString(claims jwtlib.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s, ok := claims[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
