package entity

import "time"

// Tipos de usuario (deben coincidir con el CHECK de la tabla users).
const (
	UserTypeCliente = "cliente"
	UserTypeAsesor  = "asesor"
)

// User identidad de acceso; comparte ID con su Cliente o Asesor.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt; vacío cuando la identidad vive en el proveedor externo
	UserType     string // cliente, asesor
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidUserType indica si t es un tipo de usuario conocido.
func ValidUserType(t string) bool {
	return t == UserTypeCliente || t == UserTypeAsesor
}
