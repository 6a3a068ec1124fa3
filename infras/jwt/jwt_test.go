package jwt_test

import (
	"homefix/config"
	"homefix/infras/jwt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string, expireMin int) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "homefix"
	cfg.JWT.AccessSecret = secret
	cfg.JWT.AccessExpireMin = expireMin

	return jwt.New(cfg)
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newService("secret", 15)

	token, err := svc.GenerateAccessToken("cust-1", "Asha", "customer")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", claims.UserID)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, "customer", claims.Role)
}

func TestValidateToken_Errors(t *testing.T) {
	issuer := newService("secret", 15)
	token, err := issuer.GenerateAccessToken("tech-1", "", "technician")
	require.NoError(t, err)

	_, err = newService("other-secret", 15).ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	expired, err := newService("secret", -5).GenerateAccessToken("tech-1", "", "technician")
	require.NoError(t, err)

	_, err = issuer.ValidateToken(expired)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)

	noRole, err := issuer.GenerateAccessToken("tech-1", "", "")
	require.NoError(t, err)

	_, err = issuer.ValidateToken(noRole)
	assert.ErrorIs(t, err, jwt.ErrInvalidClaim)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)
}
