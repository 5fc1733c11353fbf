package utils

import (
	"errors"
	"mediconnect-service/internal/pkg/constvars"

	"github.com/golang-jwt/jwt/v4"
)

// ParseJWTSubject verifies an HS256 token and returns its "sub" claim.
func ParseJWTSubject(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(constvars.ErrDevAuthSigningMethod)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New(constvars.ErrDevAuthTokenInvalidOrExpired)
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", errors.New(constvars.ErrDevAuthSubjectMissing)
	}
	return subject, nil
}
