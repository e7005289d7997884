package buysmart

import (
	"testing"
	"time"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "shopper@example.com",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestCheckToken(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "no token", token: ""},
		{name: "opaque token", token: "not-a-jwt"},
		{name: "valid jwt", token: signedToken(t, now.Add(time.Hour))},
		{name: "expired jwt", token: signedToken(t, now.Add(-time.Minute)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkToken(tt.token, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnauthorized)
				return
			}
			assert.NoError(t, err)
		})
	}
}
