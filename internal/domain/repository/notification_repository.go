package repository

import (
	"context"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

// NotificationRepository registro de notificaciones por usuario (solo se agregan filas).
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error)
	// MarkRead devuelve false si la notificación no existe para ese usuario.
	MarkRead(ctx context.Context, userID, id string) (bool, error)
}
