package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marcuslira2/task-manager-front/internal/models"
)

// DecodeIdentity extracts the user identity from the token's payload
// segment without verifying the signature; the client has no signing key
// and trusts the backend that issued the token. Any malformed token
// (wrong segment count, bad base64, bad JSON, missing claims) is a decode
// failure, never a panic.
func DecodeIdentity(token string) (*models.Identity, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return nil, fmt.Errorf("token payload has no sub claim")
	}

	userID, ok := numericClaim(claims, "userId")
	if !ok {
		// Some backends spell the numeric id "id" instead.
		userID, ok = numericClaim(claims, "id")
	}
	if !ok {
		return nil, fmt.Errorf("token payload has no numeric userId claim")
	}

	return &models.Identity{UserID: userID, Username: username}, nil
}

func numericClaim(claims jwt.MapClaims, key string) (int64, bool) {
	switch v := claims[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}
