package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
)

var _ repository.CalendarRepository = (*CalendarRepo)(nil)

// CalendarRepo eventos de calendario de asesores y clientes en una sola tabla.
type CalendarRepo struct {
	q Querier
}

// NewCalendarRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCalendarRepository(q Querier) *CalendarRepo {
	return &CalendarRepo{q: q}
}

const eventColumns = `id, owner_id, owner_type, title, start_at, end_at, description, all_day, created_at, updated_at`

func scanEvent(row pgx.Row) (*entity.CalendarEvent, error) {
	var ev entity.CalendarEvent
	err := row.Scan(&ev.ID, &ev.OwnerID, &ev.OwnerType, &ev.Title, &ev.Start, &ev.End,
		&ev.Description, &ev.AllDay, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// Create inserta el evento.
func (r *CalendarRepo) Create(ctx context.Context, ev *entity.CalendarEvent) error {
	query := `INSERT INTO calendar_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, ev.ID, ev.OwnerID, ev.OwnerType, ev.Title, ev.Start, ev.End,
		ev.Description, ev.AllDay, ev.CreatedAt, ev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	return nil
}

// GetByID obtiene el evento sin filtrar por dueño; el caso de uso compara owner_id.
func (r *CalendarRepo) GetByID(ctx context.Context, id string) (*entity.CalendarEvent, error) {
	ev, err := scanEvent(r.q.QueryRow(ctx, `SELECT `+eventColumns+` FROM calendar_events WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get calendar event: %w", err)
	}
	return ev, nil
}

// Update reescribe los campos editables.
func (r *CalendarRepo) Update(ctx context.Context, ev *entity.CalendarEvent) error {
	query := `
		UPDATE calendar_events SET title = $2, start_at = $3, end_at = $4, description = $5,
			all_day = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, ev.ID, ev.Title, ev.Start, ev.End, ev.Description, ev.AllDay, ev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el evento.
func (r *CalendarRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

// ListByOwner eventos del dueño ordenados por inicio.
func (r *CalendarRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.CalendarEvent, error) {
	rows, err := r.q.Query(ctx, `SELECT `+eventColumns+` FROM calendar_events WHERE owner_id = $1 ORDER BY start_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	defer rows.Close()
	var list []*entity.CalendarEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		list = append(list, ev)
	}
	return list, rows.Err()
}
