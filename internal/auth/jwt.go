package auth

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTSecret resolves the signing secret. Resolution order: JWT_SECRET,
// then a dev default unless GRAPHBUS_STRICT_JWT is set to 1/true.
func JWTSecret() ([]byte, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		strict := strings.EqualFold(strings.TrimSpace(os.Getenv("GRAPHBUS_STRICT_JWT")), "1") ||
			strings.EqualFold(strings.TrimSpace(os.Getenv("GRAPHBUS_STRICT_JWT")), "true")
		if !strict {
			secret = "dev_jwt_secret_123"
		}
	}
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return []byte(secret), nil
}

// GenerateJWT creates a signed bearer token for a user id.
func GenerateJWT(userID string) (string, error) {
	secret, err := JWTSecret()
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseJWT verifies a bearer token and returns the user id it carries.
func ParseJWT(tokenString string) (string, error) {
	secret, err := JWTSecret()
	if err != nil {
		return "", err
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", fmt.Errorf("invalid token payload")
	}
	return userID, nil
}

// Issuer satisfies the Auth agent's TokenIssuer collaborator with the
// HS256 helpers above.
type Issuer struct{}

func (Issuer) Issue(userID string) (string, error) { return GenerateJWT(userID) }
