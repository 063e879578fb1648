package collab

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims scope a provider credential to one user and one validity window.
type UserClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueToken signs a credential valid between issuedAt and expiresAt.
func (c *Client) IssueToken(userID string, issuedAt, expiresAt time.Time) (string, error) {
	return issueUserToken([]byte(c.config.APISecret), userID, issuedAt, expiresAt)
}

func issueUserToken(secret []byte, userID string, issuedAt, expiresAt time.Time) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	if !expiresAt.After(issuedAt) {
		return "", fmt.Errorf("expiry %s must be after issuance %s", expiresAt, issuedAt)
	}
	claims := &UserClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// newServerToken signs the token the backend presents to the provider.
// Server tokens carry no expiry.
func newServerToken(secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"server": true}).SignedString(secret)
}

// ParseUserToken validates a credential issued by IssueToken.
func ParseUserToken(secret []byte, tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
