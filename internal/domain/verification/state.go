// Package verification modela la máquina de estados de cada sección de verificación
// del asesor: no-enviado → pendiente → verificado (terminal).
package verification

import (
	"time"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

// Normalize trata el estado vacío como no-enviado.
func Normalize(status string) string {
	if status == "" {
		return entity.StatusNoEnviado
	}
	return status
}

// Locked indica que la sección ya no admite cambios del asesor.
func Locked(status string) bool {
	return status == entity.StatusVerificado
}

// Reviewable solo las secciones pendientes pueden aprobarse o rechazarse.
func Reviewable(status string) bool {
	return status == entity.StatusPendiente
}

// Outcome resultado de aplicar un envío sobre una sección.
type Outcome[T comparable] struct {
	Data       T
	Status     string
	FechaEnvio *time.Time
	Changed    bool
}

// Submit aplica los datos enviados sobre los guardados. Si la sección está bloqueada o los
// datos son idénticos no hay cambio; si difieren, la sección pasa a pendiente con fecha now.
// Una sección no-enviada (p. ej. rechazada) con datos no vacíos se reenvía aunque no difieran.
func Submit[T comparable](status string, fechaEnvio *time.Time, stored, submitted T, now time.Time) Outcome[T] {
	status = Normalize(status)
	var zero T
	resend := status == entity.StatusNoEnviado && submitted != zero
	if Locked(status) || (stored == submitted && !resend) {
		return Outcome[T]{Data: stored, Status: status, FechaEnvio: fechaEnvio}
	}
	return Outcome[T]{Data: submitted, Status: entity.StatusPendiente, FechaEnvio: &now, Changed: true}
}

// Review devuelve el nuevo estado tras la revisión del administrador.
func Review(approve bool) string {
	if approve {
		return entity.StatusVerificado
	}
	return entity.StatusNoEnviado
}
