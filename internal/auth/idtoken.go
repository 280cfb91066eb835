package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/MatthewBrawders/Tome/internal/apierr"
)

// DecodeIDToken pulls the email and subject claims out of an identity
// provider's ID token. The signature is NOT verified: the token was just
// handed to us by the provider and only serves as a claim carrier; the
// profile API is what actually gates access.
func DecodeIDToken(rawToken string) (email, subject string, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return "", "", apierr.Validation(msgBadIdentity)
	}
	email, _ = claims["email"].(string)
	subject, _ = claims["sub"].(string)
	if email == "" || subject == "" {
		return "", "", apierr.Validation(msgBadIdentity)
	}
	return email, subject, nil
}
