package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
	"github.com/jhoicas/asesoria-financiera/pkg/validation"
)

// AccountUseCase casos de uso de cuenta: registro, login y baja de usuarios.
type AccountUseCase struct {
	tx        ports.TxRunner
	users     repository.UserRepository
	identity  ports.IdentityProvider
	validator *validation.Validator
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(tx ports.TxRunner, users repository.UserRepository, identity ports.IdentityProvider, validator *validation.Validator) *AccountUseCase {
	return &AccountUseCase{tx: tx, users: users, identity: identity, validator: validator}
}

// Register crea la cuenta en el proveedor de identidad y, en una transacción, el usuario y
// su perfil vacío de cliente o asesor. Devuelve los datos a guardar en la sesión.
func (uc *AccountUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.SessionUser, error) {
	in.Email = normalizeEmail(in.Email)
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Apellido = strings.TrimSpace(in.Apellido)
	if msgs := uc.validator.Struct(in); len(msgs) > 0 {
		in.Password, in.ConfirmPassword = "", ""
		return nil, domain.NewValidationError(in, msgs...)
	}

	existing, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("registro: buscar email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	account, err := uc.identity.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:           account.UID,
		Email:        in.Email,
		PasswordHash: account.PasswordHash,
		UserType:     in.UserType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		if in.UserType == entity.UserTypeAsesor {
			return repos.Asesores.Create(ctx, newAsesor(user, in, now))
		}
		return repos.Clientes.Create(ctx, &entity.Cliente{
			ID:        user.ID,
			Email:     user.Email,
			Nombre:    in.Nombre,
			Apellido:  in.Apellido,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("registro: guardar usuario: %w", err)
	}
	return &dto.SessionUser{ID: user.ID, Email: user.Email, UserType: user.UserType}, nil
}

// newAsesor perfil inicial: activo y con las tres secciones sin enviar.
func newAsesor(user *entity.User, in dto.RegisterRequest, now time.Time) *entity.Asesor {
	a := &entity.Asesor{
		ID:        user.ID,
		Email:     user.Email,
		Nombre:    in.Nombre,
		Apellido:  in.Apellido,
		Activo:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.Verification.Status = entity.StatusNoEnviado
	a.Titulo.Status = entity.StatusNoEnviado
	a.Certificacion.Status = entity.StatusNoEnviado
	return a
}

// Login verifica la contraseña con el proveedor de identidad y carga el usuario local.
func (uc *AccountUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.SessionUser, error) {
	in.Email = normalizeEmail(in.Email)
	if msgs := uc.validator.Struct(in); len(msgs) > 0 {
		in.Password = ""
		return nil, domain.NewValidationError(in, msgs...)
	}
	session, err := uc.identity.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByID(ctx, session.UID)
	if err != nil {
		return nil, fmt.Errorf("login: obtener usuario: %w", err)
	}
	if user == nil {
		user, err = uc.users.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("login: obtener usuario: %w", err)
		}
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return &dto.SessionUser{ID: user.ID, Email: user.Email, UserType: user.UserType}, nil
}

// DeleteUser elimina el usuario; perfil, eventos, notificaciones y chats caen en cascada.
func (uc *AccountUseCase) DeleteUser(ctx context.Context, id string) error {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("baja: obtener usuario: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if err := uc.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("baja: eliminar usuario: %w", err)
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
