// Package auth handles the identity-provider boundary: access tokens are
// JWTs carrying the acting user's id and platform-wide privileges.
package auth

import (
	"time"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims extends the registered JWT claims with the user id and the
// platform-wide privileges granted by the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string   `json:"uid"`
	Privileges []string `json:"privileges,omitempty"`
}

// GenerateToken mints an HS256-signed access token for userID with the given
// privileges and validity duration.
func GenerateToken(userID string, privileges []string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:     userID,
		Privileges: privileges,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString against secretKey and returns its claims.
// Expired, unsigned or otherwise malformed tokens yield ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
