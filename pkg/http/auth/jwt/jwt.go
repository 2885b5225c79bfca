package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

/**
 * @file: jwt.go
 * @description: access token signing and verification
 */

const issuer = "guestline"

var ErrInvalidToken = errors.New("invalid token")

type AuthClaims struct {
	UserId string `json:"userId"`
	jwt.RegisteredClaims
}

// GenToken 生成 access_token
func GenToken(userId string, secretKey []byte, expire time.Duration) (string, error) {
	if userId == "" || len(secretKey) == 0 {
		return "", ErrInvalidToken
	}
	now := time.Now()
	claims := &AuthClaims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer, // 签发人
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken 校验 access_token. Only HS256 tokens issued by this service with
// an expiry are accepted.
func ParseToken(token string, secretKey []byte) (*AuthClaims, error) {
	if len(secretKey) == 0 {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &AuthClaims{}, func(*jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*AuthClaims)
	if !ok || !parsed.Valid || claims.UserId == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
