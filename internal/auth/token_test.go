package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndVerify(t *testing.T) {
	token, exp, err := GenerateToken("game-1", secret, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := VerifyToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "game-1", claims.GameID)
	assert.Equal(t, "game-1", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestGenerateToken_Errors(t *testing.T) {
	_, _, err := GenerateToken("game-1", nil, time.Hour)
	assert.Error(t, err)
	_, _, err = GenerateToken("", secret, time.Hour)
	assert.Error(t, err)
}

func TestVerifyToken_Rejects(t *testing.T) {
	good, _, err := GenerateToken("game-1", secret, time.Hour)
	require.NoError(t, err)
	expired, _, err := GenerateToken("game-1", secret, -time.Minute)
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		GameID: "game-1",
	}).SignedString(secret)
	require.NoError(t, err)

	noGame, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{"wrong secret", good, []byte("other")},
		{"expired", expired, secret},
		{"wrong issuer", foreign, secret},
		{"missing game id", noGame, secret},
		{"garbage", "not.a.token", secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = VerifyToken(good, nil)
	assert.Error(t, err)
}
