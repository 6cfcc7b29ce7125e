package auth

import (
	"cms-admin-panel/internal/config"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT issues an access token for the user. The token carries the
// user's token version; bumping the version invalidates all issued tokens.
func GenerateJWT(userID uint64, tokenVersion uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id":       userID,
		"token_version": tokenVersion,
		"exp":           time.Now().Add(time.Hour * 24 * 3).Unix(), // expires in 3 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func VerifyJWT(tokenString string) (*jwt.Token, error) {
	// parse token
	jwtToken, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	// isValid
	if !jwtToken.Valid {
		return nil, errors.New("token invalid")
	}

	return jwtToken, nil
}

// GetDataFromToken extracts the user id and token version from a verified token
func GetDataFromToken(token *jwt.Token) (uint64, uint, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, 0, errors.New("invalid token claims")
	}

	userIDRaw, ok := claims["user_id"].(float64)
	if !ok {
		return 0, 0, errors.New("user_id missing from token")
	}

	versionRaw, ok := claims["token_version"].(float64)
	if !ok {
		return 0, 0, errors.New("token_version missing from token")
	}

	return uint64(userIDRaw), uint(versionRaw), nil
}
