package repository

import (
	"context"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) cuando no existe el registro.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// Delete elimina el usuario; perfil, eventos, notificaciones y chats caen en cascada.
	Delete(ctx context.Context, id string) error
}
