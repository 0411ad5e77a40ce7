package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
	"github.com/jhoicas/asesoria-financiera/pkg/logger"
)

// SummarySize cantidad de notificaciones que muestra el widget.
const SummarySize = 5

// NotificationUseCase registro de notificaciones por usuario.
type NotificationUseCase struct {
	repo  repository.NotificationRepository
	users repository.UserRepository
	log   *logger.Logger
	now   func() time.Time
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository, users repository.UserRepository, log *logger.Logger) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, users: users, log: log, now: time.Now}
}

// NewNotification construye una notificación no leída con ID nuevo.
func NewNotification(userID, message, link string, at time.Time) *entity.Notification {
	return &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Link:      link,
		Read:      false,
		Timestamp: at,
	}
}

// Add agrega una notificación. Los errores solo se registran en el log.
func (uc *NotificationUseCase) Add(ctx context.Context, userID, message, link string) {
	n := NewNotification(userID, message, link, uc.now())
	if err := uc.repo.Create(ctx, n); err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("no se pudo guardar la notificación")
	}
}

// Summary devuelve el conteo de no leídas y las 5 más recientes.
// Un usuario inexistente no es un error: responde con conteo cero.
func (uc *NotificationUseCase) Summary(ctx context.Context, userID string) (*dto.NotificationSummary, error) {
	out := &dto.NotificationSummary{Success: true, LatestNotifications: []dto.NotificationResponse{}}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notificaciones: obtener usuario: %w", err)
	}
	if user == nil {
		return out, nil
	}
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notificaciones: listar: %w", err)
	}
	for _, n := range list {
		if !n.Read {
			out.UnreadCount++
		}
	}
	sortNewestFirst(list)
	if len(list) > SummarySize {
		list = list[:SummarySize]
	}
	for _, n := range list {
		out.LatestNotifications = append(out.LatestNotifications, toNotificationResponse(n))
	}
	return out, nil
}

// MarkRead marca una notificación como leída. ErrNotFound si el usuario o la notificación no existen.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	if notificationID == "" {
		return domain.ErrInvalidInput
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("notificaciones: obtener usuario: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	ok, err := uc.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return fmt.Errorf("notificaciones: marcar leída: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// List todas las notificaciones del usuario, la más reciente primero.
func (uc *NotificationUseCase) List(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notificaciones: listar: %w", err)
	}
	sortNewestFirst(list)
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNotificationResponse(n))
	}
	return out, nil
}

// sortNewestFirst ordena por timestamp descendente con resolución de milisegundos.
func sortNewestFirst(list []*entity.Notification) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.UnixMilli() > list[j].Timestamp.UnixMilli()
	})
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		Timestamp: n.Timestamp,
	}
}
