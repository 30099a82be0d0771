package utils

import (
	"math/rand"
)

// GenerateUppercaseToken returns a random uppercase-alphanumeric string.
// Used for the subscription-token suffix; the full token is matched by
// exact lookup, so this is not a secret.
func GenerateUppercaseToken(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	token := make([]byte, length)
	for i := range token {
		token[i] = charset[rand.Intn(len(charset))]
	}
	return string(token)
}
