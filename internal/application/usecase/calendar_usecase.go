package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
)

// Formatos de fecha aceptados; el último no lleva hora y marca el evento como de día completo.
var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// CalendarUseCase CRUD de eventos restringido al dueño.
type CalendarUseCase struct {
	repo repository.CalendarRepository
	now  func() time.Time
}

// NewCalendarUseCase construye el caso de uso.
func NewCalendarUseCase(repo repository.CalendarRepository) *CalendarUseCase {
	return &CalendarUseCase{repo: repo, now: time.Now}
}

// List eventos del dueño ordenados por inicio.
func (uc *CalendarUseCase) List(ctx context.Context, owner dto.SessionUser) ([]dto.CalendarEventResponse, error) {
	events, err := uc.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("calendario: listar: %w", err)
	}
	out := make([]dto.CalendarEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, toCalendarEventResponse(ev))
	}
	return out, nil
}

// Create crea un evento; title y date son obligatorios.
func (uc *CalendarUseCase) Create(ctx context.Context, owner dto.SessionUser, in dto.CalendarEventRequest) (*dto.CalendarResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Date) == "" {
		return nil, domain.NewValidationError(in, "Título y fecha son obligatorios")
	}
	start, dateOnly, err := parseEventDate(in.Date)
	if err != nil {
		return nil, domain.NewValidationError(in, "Fecha inválida")
	}
	now := uc.now()
	ev := &entity.CalendarEvent{
		ID:          uuid.New().String(),
		OwnerID:     owner.ID,
		OwnerType:   owner.UserType,
		Title:       title,
		Start:       start,
		Description: strings.TrimSpace(deref(in.Description)),
		AllDay:      dateOnly,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.AllDay != nil {
		ev.AllDay = *in.AllDay
	}
	if err := applyEventEnd(ev, deref(in.End)); err != nil {
		return nil, domain.NewValidationError(in, err.Error())
	}
	if err := uc.repo.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("calendario: crear: %w", err)
	}
	return &dto.CalendarResult{Success: true, Message: "Evento creado", EventID: ev.ID}, nil
}

// Update modifica los campos enviados; Title y Date vacíos no cambian. End y Description
// ausentes (nil) no cambian y vacíos se borran. Si el nuevo inicio queda después del fin
// guardado y no se envía fin, el fin se borra. Un evento de otro dueño responde ErrNotFound.
func (uc *CalendarUseCase) Update(ctx context.Context, owner dto.SessionUser, id string, in dto.CalendarEventRequest) (*dto.CalendarResult, error) {
	ev, err := uc.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if title := strings.TrimSpace(in.Title); title != "" {
		ev.Title = title
	}
	if strings.TrimSpace(in.Date) != "" {
		start, dateOnly, err := parseEventDate(in.Date)
		if err != nil {
			return nil, domain.NewValidationError(in, "Fecha inválida")
		}
		ev.Start = start
		ev.AllDay = dateOnly
	}
	if in.AllDay != nil {
		ev.AllDay = *in.AllDay
	}
	if in.Description != nil {
		ev.Description = strings.TrimSpace(*in.Description)
	}
	switch {
	case in.End != nil && strings.TrimSpace(*in.End) == "":
		ev.End = nil
	case in.End != nil:
		if err := applyEventEnd(ev, *in.End); err != nil {
			return nil, domain.NewValidationError(in, err.Error())
		}
	case ev.End != nil && ev.End.Before(ev.Start):
		ev.End = nil
	}
	ev.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, ev); err != nil {
		return nil, fmt.Errorf("calendario: actualizar: %w", err)
	}
	return &dto.CalendarResult{Success: true, Message: "Evento actualizado", EventID: ev.ID}, nil
}

// Delete elimina el evento. Un evento de otro dueño responde ErrNotFound.
func (uc *CalendarUseCase) Delete(ctx context.Context, owner dto.SessionUser, id string) (*dto.CalendarResult, error) {
	ev, err := uc.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Delete(ctx, ev.ID); err != nil {
		return nil, fmt.Errorf("calendario: eliminar: %w", err)
	}
	return &dto.CalendarResult{Success: true, Message: "Evento eliminado"}, nil
}

// owned carga el evento solo si pertenece a owner.
func (uc *CalendarUseCase) owned(ctx context.Context, owner dto.SessionUser, id string) (*entity.CalendarEvent, error) {
	ev, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("calendario: obtener: %w", err)
	}
	if ev == nil || ev.OwnerID != owner.ID {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func applyEventEnd(ev *entity.CalendarEvent, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	end, _, err := parseEventDate(raw)
	if err != nil {
		return errors.New("Fecha de fin inválida")
	}
	if end.Before(ev.Start) {
		return errors.New("La fecha de fin no puede ser anterior al inicio")
	}
	ev.End = &end
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parseEventDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	for i, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, i == len(eventDateLayouts)-1, nil
		}
	}
	return time.Time{}, false, domain.ErrInvalidInput
}

func toCalendarEventResponse(ev *entity.CalendarEvent) dto.CalendarEventResponse {
	return dto.CalendarEventResponse{
		ID:          ev.ID,
		Title:       ev.Title,
		Start:       ev.Start,
		End:         ev.End,
		Description: ev.Description,
		AllDay:      ev.AllDay,
	}
}
