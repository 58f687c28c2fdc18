package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. Callers must
// not learn whether a token was malformed, unsigned or expired.
var ErrInvalidToken = errors.New("invalid token")

const tokenTTL = 24 * time.Hour

var jwtSecret []byte

func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// GenerateJWT issues a signed bearer token carrying the user identity.
func GenerateJWT(userID int64, email string) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(tokenTTL).Unix(),
		"iat":     now,
		"nbf":     now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT verifies a token and returns the identity it carries.
func ParseJWT(tokenString string) (int64, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidToken
	}

	// validate time-based claims
	now := time.Now().Unix()
	if exp, ok := claims["exp"].(float64); ok {
		if int64(exp) < now {
			return 0, "", ErrInvalidToken
		}
	}
	if nbf, ok := claims["nbf"].(float64); ok {
		if int64(nbf) > now {
			return 0, "", ErrInvalidToken
		}
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", ErrInvalidToken
	}

	email, _ := claims["email"].(string)

	return int64(userID), email, nil
}
