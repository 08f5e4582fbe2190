package jwttoken

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	"rsu/pkg/requestcontext"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)
var operatorID = id.NewOperatorID()
var expiresIn = time.Hour

func Test_GenerateOperatorToken(t *testing.T) {
	token, err := jwtService.GenerateOperatorToken(operatorID, requestcontext.RoleAgent, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, operatorID.String(), claims.Subject)
	assert.Equal(t, "agent", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)

	mw := NewJWTServiceAdapter(jwtService)
	mwClaims, err := mw.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, mwClaims.JTI)
	assert.Equal(t, "agent", mwClaims.Role)
}

func Test_GenerateOperatorToken_UnknownRole(t *testing.T) {
	_, err := jwtService.GenerateOperatorToken(operatorID, requestcontext.Role("root"), expiresIn)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateOperatorToken(operatorID, requestcontext.RoleAdmin, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, "token has expired", err.Error())
}

func Test_ValidateToken_WrongKeyOrAudience(t *testing.T) {
	other := NewJWTService("other-key", "test-issuer", "test-audience")
	token, err := other.GenerateOperatorToken(operatorID, requestcontext.RoleAdmin, expiresIn)
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	otherAud := NewJWTService("test-signing-key", "test-issuer", "elsewhere")
	token, err = otherAud.GenerateOperatorToken(operatorID, requestcontext.RoleAdmin, expiresIn)
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_RejectsForeignRole(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, OperatorClaims{
		Role: "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorID.String(),
			Issuer:    "test-issuer",
			Audience:  []string{"test-audience"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := raw.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, "invalid token role", err.Error())
}

func TestRevocationLists(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	lists := map[string]interface {
		RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
		IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	}{
		"redis":  NewRedisTRL(client),
		"memory": NewInMemoryTRL(),
	}

	for name, trl := range lists {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			revoked, err := trl.IsTokenRevoked(ctx, "jti-1")
			require.NoError(t, err)
			assert.False(t, revoked)

			require.NoError(t, trl.RevokeToken(ctx, "jti-1", time.Hour))
			revoked, err = trl.IsTokenRevoked(ctx, "jti-1")
			require.NoError(t, err)
			assert.True(t, revoked)

			require.NoError(t, trl.RevokeToken(ctx, "", time.Hour))
		})
	}
}
