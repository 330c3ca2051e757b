package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims - payload access-токена. Subject содержит ID пользователя.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID разбирает Subject в ID пользователя.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// JWTManager выпускает и проверяет stateless access-токены.
type JWTManager struct {
	secretKey     []byte
	method        jwt.SigningMethod
	tokenDuration time.Duration
	now           func() time.Time
}

func NewJWTManager(secretKey, algorithm string, tokenDuration time.Duration) (*JWTManager, error) {
	var method jwt.SigningMethod
	switch algorithm {
	case "HS256", "":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm: %s", algorithm)
	}
	if secretKey == "" {
		return nil, errors.New("jwt secret is empty")
	}

	return &JWTManager{
		secretKey:     []byte(secretKey),
		method:        method,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

func (m *JWTManager) GenerateToken(userID uint, email string) (string, error) {
	now := m.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(m.method, claims)
	return token.SignedString(m.secretKey)
}

// ValidateToken проверяет подпись, алгоритм и срок действия.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}
