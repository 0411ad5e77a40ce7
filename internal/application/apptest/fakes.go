package apptest

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

// Identity proveedor de identidad en memoria. Cuenta las llamadas para comprobar
// que ciertas validaciones ocurren antes de contactar al proveedor.
type Identity struct {
	mu        sync.Mutex
	passwords map[string]string // email → password
	uids      map[string]string // email → uid
	tokens    map[string]string // idToken → email

	SignUpErr    error
	SignInErr    error
	UpdateErr    error
	SignUpCalls  int
	SignInCalls  int
	UpdateCalls  int
	LastPassword string
}

// NewIdentity crea el proveedor vacío.
func NewIdentity() *Identity {
	return &Identity{passwords: map[string]string{}, uids: map[string]string{}, tokens: map[string]string{}}
}

// Add registra una cuenta existente.
func (f *Identity) Add(uid, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[email] = password
	f.uids[email] = uid
}

// Calls total de llamadas recibidas.
func (f *Identity) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SignUpCalls + f.SignInCalls + f.UpdateCalls
}

func (f *Identity) SignUp(_ context.Context, email, password string) (*ports.IdentityAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignUpCalls++
	if f.SignUpErr != nil {
		return nil, f.SignUpErr
	}
	if _, ok := f.passwords[email]; ok {
		return nil, domain.ErrEmailAlreadyExists
	}
	uid := uuid.New().String()
	f.passwords[email] = password
	f.uids[email] = uid
	return &ports.IdentityAccount{UID: uid}, nil
}

func (f *Identity) SignIn(_ context.Context, email, password string) (*ports.IdentitySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignInCalls++
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	if p, ok := f.passwords[email]; !ok || p != password {
		return nil, domain.ErrInvalidCredentials
	}
	tok := "tok-" + uuid.New().String()
	f.tokens[tok] = email
	return &ports.IdentitySession{UID: f.uids[email], Email: email, IDToken: tok}, nil
}

func (f *Identity) UpdatePassword(_ context.Context, idToken, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	email, ok := f.tokens[idToken]
	if !ok {
		return domain.ErrInvalidCredentials
	}
	f.passwords[email] = newPassword
	f.LastPassword = newPassword
	return nil
}

var _ ports.IdentityProvider = (*Identity)(nil)

// Images alojamiento de imágenes en memoria.
type Images struct {
	mu      sync.Mutex
	Err     error
	Uploads map[string][]byte
}

// NewImages crea el alojamiento vacío.
func NewImages() *Images { return &Images{Uploads: map[string][]byte{}} }

func (f *Images) Upload(_ context.Context, img ports.ImageUpload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	body, err := io.ReadAll(img.Body)
	if err != nil {
		return "", err
	}
	url := "https://img.test/" + img.Filename
	f.Uploads[url] = body
	return url, nil
}

var _ ports.ImageHost = (*Images)(nil)

// PDF generador de expedientes que devuelve un PDF mínimo.
type PDF struct{}

func (PDF) GenerateDossier(_ context.Context, a *entity.Asesor) ([]byte, error) {
	return []byte("%PDF-1.4 " + a.ID), nil
}

var _ ports.DossierPDFGenerator = PDF{}
