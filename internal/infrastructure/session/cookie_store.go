package session

import (
	"context"
	"time"

	pkgjwt "github.com/jhoicas/asesoria-financiera/pkg/jwt"
)

var _ Store = (*CookieStore)(nil)

// CookieStore la sesión completa viaja firmada en la cookie; no hay estado en el servidor.
type CookieStore struct {
	secret string
	issuer string
}

// NewCookieStore construye el almacén con el secreto HS256.
func NewCookieStore(secret, issuer string) *CookieStore {
	return &CookieStore{secret: secret, issuer: issuer}
}

// Load valida firma y expiración; un token inválido equivale a no tener sesión.
func (s *CookieStore) Load(_ context.Context, token string) (*Data, error) {
	if token == "" {
		return nil, nil
	}
	p, err := pkgjwt.Parse(s.secret, token)
	if err != nil {
		return nil, nil
	}
	return &Data{UserID: p.UserID, UserEmail: p.UserEmail, UserType: p.UserType, Flash: p.Flash}, nil
}

// Save firma de nuevo el contenido con expiración ttl (expiración deslizante).
func (s *CookieStore) Save(_ context.Context, _ string, data *Data, ttl time.Duration) (string, error) {
	return pkgjwt.Generate(s.secret, s.issuer, pkgjwt.Payload{
		UserID:    data.UserID,
		UserEmail: data.UserEmail,
		UserType:  data.UserType,
		Flash:     data.Flash,
	}, ttl)
}

// Destroy no hace nada; basta con borrar la cookie.
func (s *CookieStore) Destroy(context.Context, string) error {
	return nil
}
