package repository

import (
	"context"
	"time"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

// ClienteRepository define el puerto de persistencia para Cliente.
type ClienteRepository interface {
	Create(ctx context.Context, cliente *entity.Cliente) error
	GetByID(ctx context.Context, id string) (*entity.Cliente, error)
	// Update persiste los campos personales y financieros (no toca la asignación).
	Update(ctx context.Context, cliente *entity.Cliente) error
	UpdatePhoto(ctx context.Context, id, url string) error
	AssignAsesor(ctx context.Context, clienteID, asesorID string, at time.Time) error
	ListByAsesor(ctx context.Context, asesorID string) ([]*entity.Cliente, error)
}
