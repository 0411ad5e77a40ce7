package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Asesor profesional que ofrece asesoría; sujeto a verificación KYC y de credenciales.
type Asesor struct {
	ID               string
	Email            string // solo lectura, viene de users
	Nombre           string
	Apellido         string
	Telefono         string
	Especialidad     string
	ExperienciaAnios int
	Descripcion      string
	TarifaHora       decimal.Decimal
	FotoPerfilURL    string
	Activo           bool

	Verification  KYCVerification
	Titulo        TituloVerification
	Certificacion CertificacionVerification

	ClientesAsignados []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NombreCompleto nombre y apellido, o el email si el perfil está vacío.
func (a *Asesor) NombreCompleto() string {
	full := strings.TrimSpace(a.Nombre + " " + a.Apellido)
	if full == "" {
		return a.Email
	}
	return full
}

// Asignable: KYC y título verificados y cuenta activa. La certificación es opcional.
func (a *Asesor) Asignable() bool {
	return a.Verification.Status == StatusVerificado &&
		a.Titulo.Status == StatusVerificado &&
		a.Activo
}

// TieneCliente indica si clienteID está en el conjunto de clientes asignados.
func (a *Asesor) TieneCliente(clienteID string) bool {
	for _, id := range a.ClientesAsignados {
		if id == clienteID {
			return true
		}
	}
	return false
}
