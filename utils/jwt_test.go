package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kommunity/config"
	"kommunity/models"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = secret
	t.Cleanup(func() { config.AppConfig.JWTSecret = prev })
}

func TestActorFromTokenRoundTrip(t *testing.T) {
	withSecret(t, "test-secret")

	tok, err := GenerateToken("ramu", models.RoleServiceman, time.Hour)
	require.NoError(t, err)

	actor, err := ActorFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{Username: "ramu", Role: models.RoleServiceman}, actor)
}

func TestActorFromTokenRejectsExpiredAndForeign(t *testing.T) {
	withSecret(t, "test-secret")

	expired, err := GenerateToken("ramu", models.RoleServiceman, -time.Minute)
	require.NoError(t, err)
	_, err = ActorFromToken(expired)
	assert.Error(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ramu", "role": "admin"})
	signed, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = ActorFromToken(signed)
	assert.Error(t, err)
}

func TestActorFromTokenRequiresKnownRole(t *testing.T) {
	withSecret(t, "test-secret")

	tok, err := GenerateToken("ramu", models.Role("superuser"), time.Hour)
	require.NoError(t, err)
	_, err = ActorFromToken(tok)
	assert.Error(t, err)
}

func TestValidateTokenWithoutSecret(t *testing.T) {
	withSecret(t, "")
	_, err := ValidateToken("anything")
	assert.Error(t, err)
}
