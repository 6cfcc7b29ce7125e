package auth

import (
	"cms-admin-panel/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndVerifyJWT(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	tokenString, err := GenerateJWT(42, 3)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	token, err := VerifyJWT(tokenString)
	assert.NoError(t, err)

	userID, version, err := GetDataFromToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
	assert.Equal(t, uint(3), version)
}

func TestVerifyJWT_WrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	tokenString, err := GenerateJWT(42, 0)
	assert.NoError(t, err)

	config.AppConfig.JWTSecret = "another-secret"
	_, err = VerifyJWT(tokenString)
	assert.Error(t, err)
}

func TestVerifyJWT_Garbage(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	_, err := VerifyJWT("not-a-token")
	assert.Error(t, err)
}
