package session

import (
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
)

// ResolveSubject reads the stable user identifier out of an access token
// issued by the identity provider. The contract with the provider is only
// "a user identifier, or none": a missing token, a bad signature, or an
// empty subject all resolve to anonymous mode rather than an error.
func ResolveSubject(tokenString, secret string) (string, bool) {
	if tokenString == "" || secret == "" {
		return "", false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		slog.Warn("Unable to resolve session token, continuing anonymous", slog.Any("error", err))
		return "", false
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
