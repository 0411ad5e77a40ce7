package repository

import (
	"context"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

// CalendarRepository persistencia de eventos de calendario.
type CalendarRepository interface {
	Create(ctx context.Context, ev *entity.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*entity.CalendarEvent, error)
	Update(ctx context.Context, ev *entity.CalendarEvent) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.CalendarEvent, error)
}
