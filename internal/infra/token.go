package infra

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// UserIDFromToken reads the user id from the access token the backend issued
// at login. The client cannot verify the signature (it holds no key); the
// backend re-checks the token on every call, the id is only echoed back in
// purchase and history payloads. Looks at "user_id" first, then "sub".
func UserIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("token: parse: %w", err)
	}
	for _, k := range []string{"user_id", "sub"} {
		v, ok := claims[k]
		if !ok || v == nil {
			continue
		}
		switch id := v.(type) {
		case string:
			if id != "" {
				return id, nil
			}
		case float64:
			return fmt.Sprintf("%.0f", id), nil
		}
	}
	return "", fmt.Errorf("token: no user id claim")
}
