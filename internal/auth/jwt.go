package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mbakken/norbank/internal/common"
)

// SignToken creates a signed HMAC-SHA256 JWT for the given identity.
func SignToken(identity Identity, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    identity.UserID,
		"name":   identity.Name,
		"method": identity.Method,
		"iss":    "norbank-server",
		"iat":    now.Unix(),
		"exp":    now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// ValidateToken parses a token string and returns the identity it encodes.
func ValidateToken(tokenString string, secret []byte) (Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, fmt.Errorf("token missing subject")
	}
	name, _ := claims["name"].(string)
	method, _ := claims["method"].(string)

	return Identity{UserID: sub, Name: name, Method: method}, nil
}
