package auth

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
)

// MinPasswordLength largo mínimo de una contraseña nueva.
const MinPasswordLength = 6

// Mensajes mostrados al usuario según el error del proveedor de identidad.
const (
	MsgCurrentPasswordWrong = "La contraseña actual es incorrecta"
	MsgTooManyAttempts      = "Demasiados intentos fallidos. Inténtalo más tarde"
	MsgWeakPassword         = "La nueva contraseña es demasiado débil"
	MsgPasswordGeneric      = "No se pudo cambiar la contraseña. Inténtalo de nuevo"
	MsgPasswordChanged      = "Contraseña actualizada correctamente"
)

// PasswordUseCase cambio de contraseña contra el proveedor de identidad.
type PasswordUseCase struct {
	identity ports.IdentityProvider
}

// NewPasswordUseCase construye el caso de uso.
func NewPasswordUseCase(identity ports.IdentityProvider) *PasswordUseCase {
	return &PasswordUseCase{identity: identity}
}

// ChangePassword valida localmente (sin llamar al proveedor), reautentica con la contraseña
// actual y luego actualiza la contraseña.
func (uc *PasswordUseCase) ChangePassword(ctx context.Context, email string, in dto.ChangePasswordRequest) error {
	var msgs []string
	if in.CurrentPassword == "" {
		msgs = append(msgs, "La contraseña actual es obligatoria")
	}
	if utf8.RuneCountInString(in.NewPassword) < MinPasswordLength {
		msgs = append(msgs, "La nueva contraseña debe tener al menos 6 caracteres")
	}
	if in.NewPassword != in.ConfirmPassword {
		msgs = append(msgs, "Las contraseñas no coinciden")
	}
	if len(msgs) > 0 {
		return domain.NewValidationError(nil, msgs...)
	}

	session, err := uc.identity.SignIn(ctx, email, in.CurrentPassword)
	if err != nil {
		return err
	}
	return uc.identity.UpdatePassword(ctx, session.IDToken, in.NewPassword)
}

// PasswordErrorMessages traduce el error de ChangePassword a mensajes para el usuario.
func PasswordErrorMessages(err error) []string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Messages
	case errors.Is(err, domain.ErrInvalidCredentials):
		return []string{MsgCurrentPasswordWrong}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return []string{MsgTooManyAttempts}
	case errors.Is(err, domain.ErrWeakPassword):
		return []string{MsgWeakPassword}
	default:
		return []string{MsgPasswordGeneric}
	}
}
