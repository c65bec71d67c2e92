package room

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const userIdClaim = "userId"

// ResolveIdentity returns the participant id carried by an HS256 token.
func (s *service) ResolveIdentity(tokenString string) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("%w: token not provided", ErrInvalidToken)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	userId, ok := claims[userIdClaim].(string)
	if !ok || userId == "" {
		return "", fmt.Errorf("%w: missing %s claim", ErrInvalidToken, userIdClaim)
	}

	return userId, nil
}

// IssueToken signs a token for userId. Tokens are normally minted by the
// auth service; this is used by tooling and tests.
func (s *service) IssueToken(userId string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		userIdClaim: userId,
		"iat":       s.now().Unix(),
	}
	if ttl != 0 {
		claims["exp"] = s.now().Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}
