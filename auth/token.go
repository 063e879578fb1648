package auth

import (
	"fmt"
	"pair-lab/domain"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "pair-lab"

// IdentityClaims is the identity handed over by the identity provider.
// The coordinator trusts it as given.
type IdentityClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Image  string `json:"picture"`
	jwt.RegisteredClaims
}

func (c IdentityClaims) Member() domain.Member {
	return domain.Member{ID: c.UserID, Name: c.Name, Image: c.Image}
}

// GenerateToken creates a signed identity token for a member.
func GenerateToken(secret []byte, member domain.Member, duration time.Duration) (string, error) {
	if member.ID == "" {
		return "", fmt.Errorf("member id is required")
	}
	now := time.Now()
	claims := &IdentityClaims{
		UserID: member.ID,
		Name:   member.Name,
		Image:  member.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	// HS256 (HMAC with SHA256).
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateToken parses and validates the signature and expiration of a JWT string.
func ValidateToken(secret []byte, tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*IdentityClaims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
