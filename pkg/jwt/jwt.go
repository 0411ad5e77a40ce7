package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims claims de una sesión de navegador firmada en cookie.
// Los mensajes flash viajan en el token hasta que una vista los consume.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID    string              `json:"userId,omitempty"`
	UserEmail string              `json:"userEmail,omitempty"`
	UserType  string              `json:"userType,omitempty"`
	Flash     map[string][]string `json:"flash,omitempty"`
}

// Payload datos de sesión a firmar.
type Payload struct {
	UserID    string
	UserEmail string
	UserType  string
	Flash     map[string][]string
}

// Generate firma un token HS256 con los datos de sesión y expiración ttl.
func Generate(secret, issuer string, p Payload, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    p.UserID,
		UserEmail: p.UserEmail,
		UserType:  p.UserType,
		Flash:     p.Flash,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los datos de sesión.
func Parse(secret, tokenString string) (*Payload, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return &Payload{
		UserID:    claims.UserID,
		UserEmail: claims.UserEmail,
		UserType:  claims.UserType,
		Flash:     claims.Flash,
	}, nil
}
