package jwttoken

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "mrzgate/pkg/domain"
	dErrors "mrzgate/pkg/domain-errors"
	"mrzgate/pkg/requestcontext"
)

var clientID = id.ClientID(uuid.New())

func newService(ttl time.Duration) *JWTService {
	return NewJWTService("test-signing-key", "mrzgate-test", "mrzgate-client", ttl)
}

func TestGenerateClientToken(t *testing.T) {
	svc := newService(time.Minute)
	token, jti, err := svc.GenerateClientToken(context.Background(), clientID, []string{ScopeDecode, ScopeRead})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, jti, 32)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, clientID.String(), claims.ClientID)
	assert.Equal(t, []string{ScopeDecode, ScopeRead}, claims.Scope)
	assert.Equal(t, jti, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestGenerateClientToken_RejectsBadInput(t *testing.T) {
	svc := newService(time.Minute)

	_, _, err := svc.GenerateClientToken(context.Background(), id.ClientID{}, []string{ScopeDecode})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, _, err = svc.GenerateClientToken(context.Background(), clientID, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestValidateToken(t *testing.T) {
	svc := newService(time.Minute)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		require.ErrorContains(t, err, "invalid token")
	})

	t.Run("expired", func(t *testing.T) {
		ctx := requestcontext.WithTime(context.Background(), time.Now().Add(-time.Hour))
		token, _, err := svc.GenerateClientToken(ctx, clientID, []string{ScopeDecode})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.ErrorContains(t, err, "token expired")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("signed with another key", func(t *testing.T) {
		other := NewJWTService("other-key", "mrzgate-test", "mrzgate-client", time.Minute)
		token, _, err := other.GenerateClientToken(context.Background(), clientID, []string{ScopeDecode})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.ErrorContains(t, err, "invalid token")
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService("test-signing-key", "someone-else", "mrzgate-client", time.Minute)
		token, _, err := other.GenerateClientToken(context.Background(), clientID, []string{ScopeDecode})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, ClientTokenClaims{ClientID: clientID.String()})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(raw)
		require.Error(t, err)
	})
}

func TestJWTServiceAdapter(t *testing.T) {
	svc := newService(time.Minute)
	token, jti, err := svc.GenerateClientToken(context.Background(), clientID, []string{ScopeRead})
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(svc).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, clientID.String(), claims.ClientID)
	assert.Equal(t, []string{ScopeRead}, claims.Scopes)
	assert.Equal(t, jti, claims.JTI)
}
