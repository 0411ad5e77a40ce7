package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
)

var _ repository.ChatRepository = (*ChatRepo)(nil)

// ChatRepo salas y mensajes. Los mensajes se insertan y los contadores se actualizan con
// UPDATE atómico (n = n + 1), sin reescribir listas.
type ChatRepo struct {
	q Querier
}

// NewChatRepository construye el adaptador. Pasar pool o tx (Querier).
func NewChatRepository(q Querier) *ChatRepo {
	return &ChatRepo{q: q}
}

const roomColumns = `id, cliente_id, asesor_id, last_message, last_message_at, last_sender_id,
	unread_cliente, unread_asesor, created_at, updated_at`

func scanRoom(row pgx.Row) (*entity.ChatRoom, error) {
	var r entity.ChatRoom
	err := row.Scan(&r.ID, &r.ClienteID, &r.AsesorID, &r.LastMessage, &r.LastMessageAt, &r.LastSenderID,
		&r.UnreadCliente, &r.UnreadAsesor, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRoom obtiene la sala por su ID canónico.
func (r *ChatRepo) GetRoom(ctx context.Context, id string) (*entity.ChatRoom, error) {
	room, err := scanRoom(r.q.QueryRow(ctx, `SELECT `+roomColumns+` FROM chat_rooms WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat room: %w", err)
	}
	return room, nil
}

// EnsureRoom crea la sala si no existe.
func (r *ChatRepo) EnsureRoom(ctx context.Context, room *entity.ChatRoom) error {
	query := `
		INSERT INTO chat_rooms (id, cliente_id, asesor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, room.ID, room.ClienteID, room.AsesorID, room.CreatedAt, room.UpdatedAt); err != nil {
		return fmt.Errorf("ensure chat room: %w", err)
	}
	return nil
}

// AppendMessage inserta el mensaje y actualiza la caché de la sala y el contador del destinatario.
func (r *ChatRepo) AppendMessage(ctx context.Context, msg *entity.ChatMessage, recipientType string) error {
	insert := `
		INSERT INTO chat_messages (id, room_id, sender_id, sender_type, text, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, insert, msg.ID, msg.RoomID, msg.SenderID, msg.SenderType, msg.Text, msg.Timestamp); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	update := `
		UPDATE chat_rooms SET
			last_message = $2,
			last_message_at = $3,
			last_sender_id = $4,
			unread_cliente = unread_cliente + CASE WHEN $5::text = 'cliente' THEN 1 ELSE 0 END,
			unread_asesor  = unread_asesor  + CASE WHEN $5::text = 'asesor'  THEN 1 ELSE 0 END,
			updated_at = NOW()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, update, msg.RoomID, msg.Text, msg.Timestamp, msg.SenderID, recipientType)
	if err != nil {
		return fmt.Errorf("update chat room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListMessages historial de la sala en orden cronológico (a igual timestamp, orden de llegada).
func (r *ChatRepo) ListMessages(ctx context.Context, roomID string) ([]*entity.ChatMessage, error) {
	query := `
		SELECT id, room_id, sender_id, sender_type, text, sent_at
		FROM chat_messages WHERE room_id = $1 ORDER BY sent_at, seq`
	rows, err := r.q.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()
	var list []*entity.ChatMessage
	for rows.Next() {
		var m entity.ChatMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.SenderType, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ResetUnread pone en cero el contador del lado que lee.
func (r *ChatRepo) ResetUnread(ctx context.Context, roomID, readerType string) error {
	query := `UPDATE chat_rooms SET unread_asesor = 0 WHERE id = $1`
	if readerType == entity.UserTypeCliente {
		query = `UPDATE chat_rooms SET unread_cliente = 0 WHERE id = $1`
	}
	if _, err := r.q.Exec(ctx, query, roomID); err != nil {
		return fmt.Errorf("reset unread: %w", err)
	}
	return nil
}

// ListRoomsByAsesor salas del asesor, la de actividad más reciente primero.
func (r *ChatRepo) ListRoomsByAsesor(ctx context.Context, asesorID string) ([]*entity.ChatRoom, error) {
	rows, err := r.q.Query(ctx, `SELECT `+roomColumns+` FROM chat_rooms WHERE asesor_id = $1 ORDER BY updated_at DESC`, asesorID)
	if err != nil {
		return nil, fmt.Errorf("list chat rooms: %w", err)
	}
	defer rows.Close()
	var list []*entity.ChatRoom
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat room: %w", err)
		}
		list = append(list, room)
	}
	return list, rows.Err()
}
