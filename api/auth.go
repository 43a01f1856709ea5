package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tubecast/video-services/models/common"
)

// GetBearerToken extracts the bearer credential from the
// Authorization header. A missing or malformed header is a
// BadRequest, not an Unauthenticated: the client didn't present a
// credential we could even check.
func GetBearerToken(headers http.Header) (string, error) {
	authHeader := headers.Get("Authorization")
	if authHeader == "" {
		return "", common.NewBadRequest("missing Authorization header")
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", common.NewBadRequest("malformed Authorization header")
	}
	return parts[1], nil
}

// ValidateToken verifies the token's signature and expiry against the
// shared secret and returns the subject claim, which is the acting
// user's id.
func ValidateToken(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid {
		unauthenticated := common.NewUnauthenticated("invalid or expired token")
		unauthenticated.Err = err
		return "", unauthenticated
	}
	if claims.Subject == "" {
		return "", common.NewUnauthenticated("token has no subject")
	}
	return claims.Subject, nil
}

// MakeToken issues an HS256 token identifying userID, good for ttl.
func MakeToken(userID, secret string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    "tubecast",
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
