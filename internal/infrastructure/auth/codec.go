package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenMalformed    = errors.New("token malformed")
	ErrSignatureMismatch = errors.New("token signature mismatch")
)

// Claims is the payload carried by an issued token. IsAdmin is embedded at
// login so later requests do not need a user lookup.
type Claims struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens with a shared secret.
type Codec struct {
	secret  []byte
	ttl     time.Duration
	methods []string
}

func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{
		secret:  secret,
		ttl:     ttl,
		methods: []string{jwt.SigningMethodHS256.Alg()},
	}
}

func (c *Codec) Issue(userID string, isAdmin bool) (string, error) {
	if len(c.secret) == 0 {
		return "", fmt.Errorf("JWT secret not set")
	}
	now := time.Now()
	claims := &Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify decodes and validates a token string. Failures are collapsed into
// the three sentinel errors above so callers can map them to response codes.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Method.Alg())
		}
		return c.secret, nil
	}, jwt.WithValidMethods(c.methods))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureMismatch
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
