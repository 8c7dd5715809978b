package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies the kind of actor a token was issued for.
type Role string

const (
	RoleUser   Role = "user"
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the claims carried by an access token.
type Claims struct {
	Subject string `json:"sub"`
	Role    Role   `json:"role"`
}

// JWTService signs and validates access tokens. The token format is an
// opaque bearer token as far as the rest of the system is concerned.
type JWTService interface {
	GenerateToken(subject string, role Role) (string, error)
	ValidateToken(token string) (*Claims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) JWTService {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

func (s *jwtService) GenerateToken(subject string, role Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.expiry).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Claims{Subject: sub, Role: Role(role)}, nil
}
