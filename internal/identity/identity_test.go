package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func TestService_Authenticate(t *testing.T) {
	service := NewService("test-secret")

	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub":   "uid-1",
		"role":  RoleEducator,
		"email": "coach@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	p, err := service.Authenticate(token)

	assert.NoError(t, err)
	assert.Equal(t, "uid-1", p.UID)
	assert.Equal(t, RoleEducator, p.Role)
	assert.Equal(t, "coach@example.com", p.Email)
}

func TestService_Authenticate_Rejections(t *testing.T) {
	service := NewService("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not.a.jwt"},
		{"wrong secret", signToken(t, "other-secret", jwt.MapClaims{
			"sub": "uid-1", "role": RoleStudent,
		})},
		{"expired", signToken(t, "test-secret", jwt.MapClaims{
			"sub": "uid-1", "role": RoleStudent,
			"exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"missing sub", signToken(t, "test-secret", jwt.MapClaims{
			"role": RoleStudent,
		})},
		{"missing role", signToken(t, "test-secret", jwt.MapClaims{
			"sub": "uid-1",
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Authenticate(tt.token)
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

// Tokens signed with a non-HMAC algorithm must be rejected even if the
// header claims otherwise.
func TestService_Authenticate_AlgorithmConfusion(t *testing.T) {
	service := NewService("test-secret")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "uid-1", "role": RoleAdmin,
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = service.Authenticate(unsigned)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPrincipal_HasRole(t *testing.T) {
	p := &Principal{UID: "uid-1", Role: RoleEducator}

	assert.True(t, p.HasRole(RoleEducator))
	assert.True(t, p.HasRole(RoleEducator, RoleAdmin))
	assert.False(t, p.HasRole(RoleAdmin))
	assert.False(t, p.HasRole())
}
