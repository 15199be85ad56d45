package registrar

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	dErrors "civicred/pkg/domain-errors"
)

func newTestService() *Service {
	return NewService("test-signing-key", "civicred", "civicred-api")
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateToken("registrar-1", time.Minute)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "registrar-1", claims.Subject)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := newTestService()

	token, err := svc.GenerateToken("registrar-1", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := NewService("other-key", "civicred", "civicred-api").GenerateToken("registrar-1", time.Minute)
	require.NoError(t, err)

	_, err = newTestService().ValidateToken(token)
	require.Error(t, err)
}

func TestValidateRejectsMissingRole(t *testing.T) {
	svc := newTestService()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "registrar-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			Issuer:    "civicred",
			Audience:  []string{"civicred-api"},
		},
	})
	token, err := unsigned.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
