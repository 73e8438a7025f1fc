package infra

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func TestUserIDFromToken(t *testing.T) {
	cases := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"numeric user_id", jwt.MapClaims{"user_id": 42}, "42"},
		{"string user_id", jwt.MapClaims{"user_id": "u-7"}, "u-7"},
		{"sub fallback", jwt.MapClaims{"sub": "19"}, "19"},
		{"user_id wins", jwt.MapClaims{"user_id": 3, "sub": "19"}, "3"},
		{"empty user_id falls through", jwt.MapClaims{"user_id": "", "sub": "19"}, "19"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := UserIDFromToken(signed(t, tc.claims))
			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestUserIDFromToken_Errors(t *testing.T) {
	_, err := UserIDFromToken("not-a-token")
	assert.ErrorContains(t, err, "token: parse")

	_, err = UserIDFromToken(signed(t, jwt.MapClaims{"name": "cashier"}))
	assert.ErrorContains(t, err, "no user id claim")
}
