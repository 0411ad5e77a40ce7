package ports

import (
	"context"

	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
)

// TxRepos repositorios ligados a una misma transacción.
type TxRepos struct {
	Users         repository.UserRepository
	Clientes      repository.ClienteRepository
	Asesores      repository.AsesorRepository
	Notifications repository.NotificationRepository
	Chats         repository.ChatRepository
}

// TxRunner ejecuta fn dentro de una transacción; si fn retorna error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
