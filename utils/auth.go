package utils

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JWT Secret Key
var JwtKey = []byte("your_secret_key") // This will be loaded from .env

// SessionCookieName is the HTTP-only cookie carrying the admin session
const SessionCookieName = "admin_session"

// SessionDuration is how long an admin session stays valid
const SessionDuration = 24 * time.Hour

// Claims represents the admin session claims
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// GenerateSessionToken signs a token for an admin session valid for
// SessionDuration.
func GenerateSessionToken() (string, error) {
	expirationTime := time.Now().Add(SessionDuration)
	claims := &Claims{
		Role: "admin",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(JwtKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ParseSessionToken validates a session token and returns its claims.
func ParseSessionToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("invalid token", jwt.ValidationErrorSignatureInvalid)
	}
	return claims, nil
}
