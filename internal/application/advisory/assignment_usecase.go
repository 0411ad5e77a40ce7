package advisory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
)

// Destinos de navegación de la asignación.
const (
	RedirectChat   = "/cliente/chat"
	RedirectBrowse = "/cliente/asesores"
	LinkClientes   = "/asesor/clientes"
)

// Mensajes de asignación.
const (
	MsgAssigned      = "Asesor asignado correctamente"
	MsgNotAssignable = "El asesor seleccionado no está verificado o no está activo"
)

// AssignmentUseCase vincula un cliente con un asesor verificado y activo.
type AssignmentUseCase struct {
	tx       ports.TxRunner
	clientes repository.ClienteRepository
	asesores repository.AsesorRepository
	now      func() time.Time
}

// NewAssignmentUseCase construye el caso de uso.
func NewAssignmentUseCase(tx ports.TxRunner, clientes repository.ClienteRepository, asesores repository.AsesorRepository) *AssignmentUseCase {
	return &AssignmentUseCase{tx: tx, clientes: clientes, asesores: asesores, now: time.Now}
}

// Assign asigna el asesor al cliente. Solo se valida la elegibilidad del asesor en este
// momento (KYC y título verificados, activo). Cliente, asesor y notificación se escriben en
// una transacción; si el cliente tenía otro asesor, sale de su lista de clientes.
func (uc *AssignmentUseCase) Assign(ctx context.Context, clienteID, asesorID string) (*dto.RedirectResponse, error) {
	if asesorID == "" {
		return nil, domain.ErrInvalidInput
	}
	cliente, err := uc.clientes.GetByID(ctx, clienteID)
	if err != nil {
		return nil, fmt.Errorf("asignación: obtener cliente: %w", err)
	}
	if cliente == nil {
		return nil, domain.ErrNotFound
	}
	asesor, err := uc.asesores.GetByID(ctx, asesorID)
	if err != nil {
		return nil, fmt.Errorf("asignación: obtener asesor: %w", err)
	}
	if asesor == nil || !asesor.Asignable() {
		return nil, domain.ErrAdvisorNotAssignable
	}

	ok := &dto.RedirectResponse{Success: true, Message: MsgAssigned, RedirectTo: RedirectChat}
	if cliente.TieneAsesor() && *cliente.AsesorAsignado == asesorID && asesor.TieneCliente(clienteID) {
		return ok, nil
	}

	now := uc.now()
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if cliente.TieneAsesor() && *cliente.AsesorAsignado != asesorID {
			if err := repos.Asesores.RemoveCliente(ctx, *cliente.AsesorAsignado, clienteID); err != nil {
				return err
			}
		}
		if err := repos.Clientes.AssignAsesor(ctx, clienteID, asesorID, now); err != nil {
			return err
		}
		if err := repos.Asesores.AddCliente(ctx, asesorID, clienteID, now); err != nil {
			return err
		}
		msg := fmt.Sprintf("%s te ha seleccionado como su asesor financiero", cliente.NombreCompleto())
		return repos.Notifications.Create(ctx, usecase.NewNotification(asesorID, msg, LinkClientes, now))
	})
	if err != nil {
		return nil, fmt.Errorf("asignación: guardar: %w", err)
	}
	return ok, nil
}

// ListAssignable asesores que un cliente puede elegir.
func (uc *AssignmentUseCase) ListAssignable(ctx context.Context) ([]*entity.Asesor, error) {
	list, err := uc.asesores.ListAssignable(ctx)
	if err != nil {
		return nil, fmt.Errorf("asignación: listar asesores: %w", err)
	}
	return list, nil
}

// ListAssignedClients clientes que tienen asignado al asesor.
func (uc *AssignmentUseCase) ListAssignedClients(ctx context.Context, asesorID string) ([]*entity.Cliente, error) {
	list, err := uc.clientes.ListByAsesor(ctx, asesorID)
	if err != nil {
		return nil, fmt.Errorf("asignación: listar clientes: %w", err)
	}
	return list, nil
}
