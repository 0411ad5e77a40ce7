package identity

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
)

var _ ports.IdentityProvider = (*LocalProvider)(nil)

// minLocalPassword mismo mínimo que aplica el proveedor remoto.
const minLocalPassword = 6

// LocalProvider identidad local: hashes bcrypt en la tabla users.
// El idToken de la sesión es el ID del usuario.
type LocalProvider struct {
	users repository.UserRepository
	cost  int
}

// NewLocalProvider construye el proveedor con bcrypt.DefaultCost.
func NewLocalProvider(users repository.UserRepository) *LocalProvider {
	return &LocalProvider{users: users, cost: bcrypt.DefaultCost}
}

// SignUp genera el UID y el hash; la fila de users la crea el caso de uso.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*ports.IdentityAccount, error) {
	if utf8.RuneCountInString(password) < minLocalPassword {
		return nil, domain.ErrWeakPassword
	}
	existing, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &ports.IdentityAccount{UID: uuid.New().String(), PasswordHash: string(hash)}, nil
}

// SignIn compara la contraseña con el hash guardado.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*ports.IdentitySession, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return &ports.IdentitySession{UID: user.ID, Email: user.Email, IDToken: user.ID}, nil
}

// UpdatePassword guarda el nuevo hash del usuario identificado por idToken.
func (p *LocalProvider) UpdatePassword(ctx context.Context, idToken, newPassword string) error {
	if utf8.RuneCountInString(newPassword) < minLocalPassword {
		return domain.ErrWeakPassword
	}
	user, err := p.users.GetByID(ctx, idToken)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return p.users.UpdatePasswordHash(ctx, user.ID, string(hash))
}
