package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueToken signs an HS256 token carrying the establishment and role
// claims the middleware expects. Used by the local staff login endpoint;
// JWKS-backed deployments issue tokens at the identity provider instead.
func IssueToken(userID, establishmentID string, roles []string, key []byte, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		EstablishmentID: establishmentID,
		Roles:           roles,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
