package dto

// RegisterRequest formulario de registro.
type RegisterRequest struct {
	Email           string `form:"email" json:"email" label:"Email" validate:"required,email"`
	Password        string `form:"password" json:"password" label:"Contraseña" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" label:"Confirmación" validate:"required,eqfield=Password"`
	UserType        string `form:"userType" json:"userType" label:"Tipo de usuario" validate:"required,oneof=cliente asesor"`
	Nombre          string `form:"nombre" json:"nombre" label:"Nombre" validate:"required,max=100"`
	Apellido        string `form:"apellido" json:"apellido" label:"Apellido" validate:"omitempty,max=100"`
}

// LoginRequest formulario de inicio de sesión.
type LoginRequest struct {
	Email    string `form:"email" json:"email" label:"Email" validate:"required,email"`
	Password string `form:"password" json:"password" label:"Contraseña" validate:"required"`
}

// SessionUser datos que se guardan en la sesión tras el login.
type SessionUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

// ChangePasswordRequest formulario de cambio de contraseña.
type ChangePasswordRequest struct {
	CurrentPassword string `form:"currentPassword" json:"currentPassword"`
	NewPassword     string `form:"newPassword" json:"newPassword"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}
