package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// HMACValidator validates HS256-signed bearer tokens with a shared signing key.
type HMACValidator struct {
	signingKey []byte
}

// NewHMACValidator creates a validator for HS256 tokens.
func NewHMACValidator(signingKey string) *HMACValidator {
	return &HMACValidator{signingKey: []byte(signingKey)}
}

var _ JWTValidator = (*HMACValidator)(nil)

// ValidateToken parses and validates the token signature and standard claims.
func (v *HMACValidator) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("missing subject claim")
	}

	jti, _ := claims["jti"].(string)

	return &JWTClaims{UserID: sub, JTI: jti}, nil
}
