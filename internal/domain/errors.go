package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Asignación cliente → asesor.
	ErrAdvisorNotAssignable = errors.New("el asesor no está verificado o no está activo")

	// Errores del proveedor de identidad, ya traducidos desde sus códigos.
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrTooManyAttempts    = errors.New("demasiados intentos fallidos")
	ErrWeakPassword       = errors.New("contraseña demasiado débil")
	ErrUpstream           = errors.New("servicio externo no disponible")
)

// ValidationError agrupa los mensajes de validación de un formulario.
// Input conserva lo enviado por el usuario para volver a pintar el formulario.
type ValidationError struct {
	Messages []string
	Input    interface{}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return "validación: " + strings.Join(e.Messages, "; ")
}

// Is permite errors.Is(err, ErrInvalidInput) sobre un ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError construye el error con los mensajes dados.
func NewValidationError(input interface{}, messages ...string) *ValidationError {
	return &ValidationError{Messages: messages, Input: input}
}
