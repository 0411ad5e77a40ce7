package repository

import (
	"context"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

// ChatRepository persistencia de salas y mensajes.
type ChatRepository interface {
	GetRoom(ctx context.Context, id string) (*entity.ChatRoom, error)
	// EnsureRoom crea la sala si no existe; no modifica una sala existente.
	EnsureRoom(ctx context.Context, room *entity.ChatRoom) error
	// AppendMessage inserta el mensaje, actualiza la caché del último mensaje e
	// incrementa solo el contador de no leídos de recipientType.
	AppendMessage(ctx context.Context, msg *entity.ChatMessage, recipientType string) error
	ListMessages(ctx context.Context, roomID string) ([]*entity.ChatMessage, error)
	ResetUnread(ctx context.Context, roomID, readerType string) error
	ListRoomsByAsesor(ctx context.Context, asesorID string) ([]*entity.ChatRoom, error)
}
