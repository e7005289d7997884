package buysmart

import (
	"fmt"
	"time"

	"github.com/buysmart/comparison/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// checkToken fails fast on a JWT whose exp claim has passed. The signature is
// not verified; the backend does that. Tokens that are not JWTs are sent as-is.
func checkToken(token string, now time.Time) error {
	if token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if now.After(exp.Time) {
		return fmt.Errorf("%w: token expired at %s", domain.ErrUnauthorized, exp.Time.UTC().Format(time.RFC3339))
	}
	return nil
}
