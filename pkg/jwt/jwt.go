package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject datos de sesión que viajan en el token del bridge.
type Subject struct {
	SessionID string
	UserID    int64
	Name      string
	Role      string
}

// Claims claims estándar (jti = id de sesión, sub = id de usuario) más nombre y rol.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

// Generate firma un token HS256 para la sesión indicada.
func Generate(secret, issuer string, expMinutes int, s Subject) (string, error) {
	if secret == "" {
		return "", errors.New("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.SessionID,
			Issuer:    issuer,
			Subject:   strconv.FormatInt(s.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Name: s.Name,
		Role: s.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve el Subject.
func Parse(secret, tokenString string) (*Subject, error) {
	if secret == "" {
		return nil, errors.New("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("claims inválidos")
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("subject inválido: %w", err)
	}
	return &Subject{
		SessionID: claims.ID,
		UserID:    userID,
		Name:      claims.Name,
		Role:      claims.Role,
	}, nil
}
