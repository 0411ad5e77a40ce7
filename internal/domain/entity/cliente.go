package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Perfiles de riesgo del cliente.
const (
	PerfilConservador = "conservador"
	PerfilModerado    = "moderado"
	PerfilAgresivo    = "agresivo"
)

// Cliente consumidor de asesoría; puede tener como máximo un asesor asignado.
type Cliente struct {
	ID                string
	Email             string // solo lectura, viene de users
	Nombre            string
	Apellido          string
	Telefono          string
	FechaNacimiento   *time.Time
	Direccion         string
	Ciudad            string
	Pais              string
	Ocupacion         string
	IngresosMensuales decimal.Decimal
	GastosMensuales   decimal.Decimal
	Patrimonio        decimal.Decimal
	PerfilRiesgo      string
	Objetivos         []string
	FotoPerfilURL     string

	AsesorAsignado        *string
	FechaAsignacionAsesor *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NombreCompleto nombre y apellido, o el email si el perfil está vacío.
func (c *Cliente) NombreCompleto() string {
	full := strings.TrimSpace(c.Nombre + " " + c.Apellido)
	if full == "" {
		return c.Email
	}
	return full
}

// CapacidadAhorro ingresos menos gastos mensuales.
func (c *Cliente) CapacidadAhorro() decimal.Decimal {
	return c.IngresosMensuales.Sub(c.GastosMensuales)
}

// TieneAsesor indica si el cliente ya está vinculado a un asesor.
func (c *Cliente) TieneAsesor() bool {
	return c.AsesorAsignado != nil && *c.AsesorAsignado != ""
}
