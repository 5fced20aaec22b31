package auth

import (
	"context"
	"testing"
	"time"

	"carclub/paddock/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	p := NewTokenProvider("s3cret", "paddock")

	token, err := p.GenerateToken("discord:42", "Ayrton", time.Hour)
	require.NoError(t, err)

	claims, err := p.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "discord:42", claims.Subject)
	assert.Equal(t, "Ayrton", claims.Name)
}

func TestValidateTokenRejects(t *testing.T) {
	p := NewTokenProvider("s3cret", "paddock")

	expired, err := p.GenerateToken("discord:42", "", -time.Minute)
	require.NoError(t, err)
	_, err = p.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	forged, err := NewTokenProvider("other", "paddock").GenerateToken("discord:42", "", time.Hour)
	require.NoError(t, err)
	_, err = p.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	foreign, err := NewTokenProvider("s3cret", "elsewhere").GenerateToken("discord:42", "", time.Hour)
	require.NoError(t, err)
	_, err = p.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = p.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetPrincipal(ctx))

	ctx = SetPrincipal(ctx, &Principal{UserID: "u1", SiteRole: constants.SiteRoleUser})
	require.NotNil(t, GetPrincipal(ctx))
	assert.Equal(t, "u1", GetPrincipal(ctx).UserID)

	assert.Empty(t, GetRequestID(context.Background()))
	assert.Equal(t, "req-1", GetRequestID(SetRequestID(ctx, "req-1")))
}
