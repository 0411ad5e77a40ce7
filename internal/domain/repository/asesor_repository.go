package repository

import (
	"context"
	"time"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

// AsesorRepository define el puerto de persistencia para Asesor.
type AsesorRepository interface {
	Create(ctx context.Context, asesor *entity.Asesor) error
	// GetByID carga también las tres secciones de verificación y los clientes asignados.
	GetByID(ctx context.Context, id string) (*entity.Asesor, error)
	// GetByIDForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Asesor, error)
	// Update persiste los campos personales y profesionales.
	Update(ctx context.Context, asesor *entity.Asesor) error
	UpdatePhoto(ctx context.Context, id, url string) error
	// UpdateVerification reescribe las tres secciones de verificación.
	UpdateVerification(ctx context.Context, asesor *entity.Asesor) error
	SetActive(ctx context.Context, id string, active bool) error
	ListAssignable(ctx context.Context) ([]*entity.Asesor, error)
	ListPendingVerification(ctx context.Context) ([]*entity.Asesor, error)
	// AddCliente agrega al conjunto de clientes asignados (idempotente).
	AddCliente(ctx context.Context, asesorID, clienteID string, at time.Time) error
	RemoveCliente(ctx context.Context, asesorID, clienteID string) error
}
