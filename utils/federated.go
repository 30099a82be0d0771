package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadIdentityToken = errors.New("invalid identity token")

// ParseIdentityToken extracts the verified email from an upstream identity
// provider's ID token. The provider already authenticated the user; the
// backend only checks the audience (when FEDERATED_CLIENT_ID is set), the
// expiry, and that an email claim is present.
func ParseIdentityToken(idToken string) (string, error) {
	token, _, err := jwt.NewParser().ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		return "", ErrBadIdentityToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrBadIdentityToken
	}

	if aud := os.Getenv("FEDERATED_CLIENT_ID"); aud != "" {
		if got, _ := claims.GetAudience(); len(got) == 0 || got[0] != aud {
			return "", ErrBadIdentityToken
		}
	}

	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil || exp.Before(time.Now()) {
		return "", ErrBadIdentityToken
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrBadIdentityToken
	}
	return email, nil
}
