// Package identity adaptadores del puerto IdentityProvider: la API REST de identidad
// (signUp, signInWithPassword, update) y un proveedor local con bcrypt.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
)

var _ ports.IdentityProvider = (*RESTProvider)(nil)

// RESTProvider cliente de la API REST de identidad (formato Identity Toolkit).
type RESTProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewRESTProvider construye el cliente. baseURL sin barra final, p. ej.
// "https://identitytoolkit.googleapis.com/v1".
func NewRESTProvider(apiKey, baseURL string) *RESTProvider {
	return &RESTProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type updateRequest struct {
	IDToken           string `json:"idToken"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type errorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignUp crea la cuenta; EMAIL_EXISTS se traduce a ErrEmailAlreadyExists.
func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (*ports.IdentityAccount, error) {
	var out accountResponse
	if err := p.post(ctx, "accounts:signUp", credentialsRequest{email, password, true}, &out); err != nil {
		return nil, err
	}
	return &ports.IdentityAccount{UID: out.LocalID}, nil
}

// SignIn verifica email y contraseña y devuelve el idToken de la sesión.
func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (*ports.IdentitySession, error) {
	var out accountResponse
	if err := p.post(ctx, "accounts:signInWithPassword", credentialsRequest{email, password, true}, &out); err != nil {
		return nil, err
	}
	if out.Email == "" {
		out.Email = email
	}
	return &ports.IdentitySession{UID: out.LocalID, Email: out.Email, IDToken: out.IDToken}, nil
}

// UpdatePassword cambia la contraseña de la cuenta dueña del idToken.
func (p *RESTProvider) UpdatePassword(ctx context.Context, idToken, newPassword string) error {
	return p.post(ctx, "accounts:update", updateRequest{idToken, newPassword, true}, nil)
}

func (p *RESTProvider) post(ctx context.Context, method string, payload, out interface{}) error {
	if p.apiKey == "" {
		return fmt.Errorf("identity: API key no configurada: %w", domain.ErrUpstream)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("identity: serializar request: %w", err)
	}
	url := fmt.Sprintf("%s/%s?key=%s", p.baseURL, method, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("identity: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity: %s: %v: %w", method, err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("identity: leer respuesta: %w", domain.ErrUpstream)
	}
	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if jsonErr := json.Unmarshal(raw, &er); jsonErr == nil && er.Error != nil {
			return MapErrorCode(er.Error.Message)
		}
		return fmt.Errorf("identity: HTTP %d: %w", resp.StatusCode, domain.ErrUpstream)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("identity: deserializar respuesta: %w", domain.ErrUpstream)
	}
	return nil
}

// MapErrorCode traduce el código de error del proveedor a un error de dominio.
// WEAK_PASSWORD llega con sufijo (" : Password should be at least 6 characters").
func MapErrorCode(code string) error {
	code = strings.TrimSpace(code)
	switch {
	case code == "EMAIL_EXISTS":
		return domain.ErrEmailAlreadyExists
	case code == "INVALID_PASSWORD", code == "INVALID_LOGIN_CREDENTIALS", code == "EMAIL_NOT_FOUND":
		return domain.ErrInvalidCredentials
	case strings.HasPrefix(code, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return domain.ErrTooManyAttempts
	case strings.HasPrefix(code, "WEAK_PASSWORD"):
		return domain.ErrWeakPassword
	case code == "":
		return domain.ErrUpstream
	default:
		return fmt.Errorf("identity: %s: %w", code, domain.ErrUpstream)
	}
}

