// Package auth mints and checks the HS256 access tokens handed out on login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the account id alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID `json:"aid"`
}

func GenerateToken(accountID uuid.UUID, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %w", common.ErrorInternal, err)
	}

	return tokenString, nil
}

// GetAccountIDFromToken validates tokenString and returns its account id.
// An expired token yields common.ErrTokenExpired; any other failure
// common.ErrInvalidToken.
func GetAccountIDFromToken(tokenString string, secretKey []byte) (uuid.UUID, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, common.ErrTokenExpired
		}
		return uuid.Nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.AccountID == uuid.Nil {
		return uuid.Nil, common.ErrInvalidToken
	}

	return claims.AccountID, nil
}
