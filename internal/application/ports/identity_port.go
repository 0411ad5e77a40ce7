package ports

import "context"

// IdentityAccount cuenta creada en el proveedor de identidad.
// PasswordHash solo lo llena el proveedor local; el remoto guarda la contraseña él mismo.
type IdentityAccount struct {
	UID          string
	PasswordHash string
}

// IdentitySession resultado de un inicio de sesión correcto.
// IDToken es el token que exige UpdatePassword.
type IdentitySession struct {
	UID     string
	Email   string
	IDToken string
}

// IdentityProvider puerto de salida hacia el servicio de identidad (REST externo o local).
// Los errores se devuelven ya traducidos a errores de dominio
// (ErrInvalidCredentials, ErrTooManyAttempts, ErrWeakPassword, ErrEmailAlreadyExists, ErrUpstream).
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*IdentityAccount, error)
	SignIn(ctx context.Context, email, password string) (*IdentitySession, error)
	UpdatePassword(ctx context.Context, idToken, newPassword string) error
}
