package auth

import (
	"context"
	"testing"

	"circle_pipeline/internal/dto/request"
	"circle_pipeline/pkg/errorx"
	"circle_pipeline/pkg/util/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, secret string) *Service {
	t.Helper()
	jwt.Init("unit-test-signing-key", 60)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewAuthService(ctx, secret, jwt.Expiry())
}

func TestIssueToken_WrongSecret(t *testing.T) {
	s := newTestService(t, "open-sesame")

	_, err := s.IssueToken(request.TokenRequest{Secret: "nope"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestIssueToken_DisabledWithoutSecret(t *testing.T) {
	s := newTestService(t, "")

	_, err := s.IssueToken(request.TokenRequest{Secret: ""})
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestIssueValidateRevoke(t *testing.T) {
	s := newTestService(t, "open-sesame")

	tok, err := s.IssueToken(request.TokenRequest{Secret: "open-sesame"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)

	claims, err := s.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tok.TokenID, claims.TokenID)

	require.NoError(t, s.RevokeToken(tok.TokenID))
	_, err = s.ValidateToken(tok.AccessToken)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))

	assert.True(t, errorx.IsNotFound(s.RevokeToken(tok.TokenID)))
}

func TestValidateToken_Garbage(t *testing.T) {
	s := newTestService(t, "open-sesame")

	_, err := s.ValidateToken("not.a.jwt")
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}
