package utils

import (
	"errors"
	"os"
	"time"

	"homecare-rental/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

// devSecret signs tokens when JWT_SECRET is unset outside production.
const devSecret = "homecare-rental-dev-secret"

var ErrNoJWTSecret = errors.New("JWT_SECRET is required in production")

func jwtSecret() ([]byte, error) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret), nil
	}
	if config.IsProduction() {
		return nil, ErrNoJWTSecret
	}
	return []byte(devSecret), nil
}

// CheckJWTSecret fails when no signing secret is usable in this environment.
func CheckJWTSecret() error {
	_, err := jwtSecret()
	return err
}

// GenerateToken signs a token carrying the user id and role.
func GenerateToken(userID uint64, roleID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role_id": roleID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}

	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ValidateToken(encodedToken string) (*jwt.Token, error) {
	return jwt.Parse(encodedToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret()
	})
}

// ClaimsOf pulls the user id and role out of a validated token. JSON numbers
// decode as float64.
func ClaimsOf(token *jwt.Token) (userID uint64, roleID uint, ok bool) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, 0, false
	}
	if v, isNum := claims["user_id"].(float64); isNum {
		userID = uint64(v)
	}
	if v, isNum := claims["role_id"].(float64); isNum {
		roleID = uint(v)
	}
	return userID, roleID, true
}
