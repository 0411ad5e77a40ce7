package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/chat"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
)

const (
	maxMessageLength = 2000
	previewLength    = 80
)

// ChatUseCase mensajes entre un cliente y su asesor asignado.
type ChatUseCase struct {
	tx       ports.TxRunner
	chats    repository.ChatRepository
	clientes repository.ClienteRepository
	now      func() time.Time
}

// NewChatUseCase construye el caso de uso.
func NewChatUseCase(tx ports.TxRunner, chats repository.ChatRepository, clientes repository.ClienteRepository) *ChatUseCase {
	return &ChatUseCase{tx: tx, chats: chats, clientes: clientes, now: time.Now}
}

// pair resuelve (clienteID, asesorID, tipo del destinatario) y comprueba que el cliente
// tenga asignado a ese asesor.
func (uc *ChatUseCase) pair(ctx context.Context, user dto.SessionUser, otherID string) (clienteID, asesorID, recipientType string, err error) {
	switch user.UserType {
	case entity.UserTypeAsesor:
		clienteID, asesorID, recipientType = otherID, user.ID, entity.UserTypeCliente
	case entity.UserTypeCliente:
		clienteID, asesorID, recipientType = user.ID, otherID, entity.UserTypeAsesor
	default:
		return "", "", "", domain.ErrForbidden
	}
	if otherID == "" {
		return "", "", "", domain.ErrInvalidInput
	}
	c, err := uc.clientes.GetByID(ctx, clienteID)
	if err != nil {
		return "", "", "", fmt.Errorf("chat: obtener cliente: %w", err)
	}
	if c == nil {
		return "", "", "", domain.ErrNotFound
	}
	if !c.TieneAsesor() || *c.AsesorAsignado != asesorID {
		return "", "", "", domain.ErrForbidden
	}
	return clienteID, asesorID, recipientType, nil
}

// SendMessage agrega un mensaje a la sala del par (creándola con el primer mensaje).
// El timestamp lo aporta quien envía; solo se incrementa el contador del destinatario.
func (uc *ChatUseCase) SendMessage(ctx context.Context, sender dto.SessionUser, in dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	text := strings.TrimSpace(in.Text)
	var msgs []string
	if text == "" {
		msgs = append(msgs, "El mensaje no puede estar vacío")
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		msgs = append(msgs, "El mensaje es demasiado largo")
	}
	if in.Timestamp <= 0 {
		msgs = append(msgs, "Falta la fecha del mensaje")
	}
	if len(msgs) > 0 {
		return nil, domain.NewValidationError(in, msgs...)
	}

	clienteID, asesorID, recipientType, err := uc.pair(ctx, sender, in.RecipientID)
	if err != nil {
		return nil, err
	}

	roomID := chat.RoomID(clienteID, asesorID)
	msg := &entity.ChatMessage{
		ID:         uuid.New().String(),
		RoomID:     roomID,
		SenderID:   sender.ID,
		SenderType: sender.UserType,
		Text:       text,
		Timestamp:  time.UnixMilli(in.Timestamp).UTC(),
	}
	now := uc.now()
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		room := &entity.ChatRoom{ID: roomID, ClienteID: clienteID, AsesorID: asesorID, CreatedAt: now, UpdatedAt: now}
		if err := repos.Chats.EnsureRoom(ctx, room); err != nil {
			return err
		}
		return repos.Chats.AppendMessage(ctx, msg, recipientType)
	})
	if err != nil {
		return nil, fmt.Errorf("chat: enviar mensaje: %w", err)
	}
	return &dto.SendMessageResponse{Success: true, RoomID: roomID, Message: toChatMessageResponse(msg)}, nil
}

// Messages historial completo de la sala. Leer pone en cero el contador de quien lee.
// Quien no participa en la sala recibe ErrNotFound.
func (uc *ChatUseCase) Messages(ctx context.Context, reader dto.SessionUser, roomID string) (*dto.ChatMessagesResponse, error) {
	room, err := uc.chats.GetRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("chat: obtener sala: %w", err)
	}
	if !chat.IsParticipant(room, reader.ID) {
		return nil, domain.ErrNotFound
	}
	list, err := uc.chats.ListMessages(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("chat: listar mensajes: %w", err)
	}
	readerType := entity.UserTypeAsesor
	if room.ClienteID == reader.ID {
		readerType = entity.UserTypeCliente
	}
	if err := uc.chats.ResetUnread(ctx, roomID, readerType); err != nil {
		return nil, fmt.Errorf("chat: reiniciar no leídos: %w", err)
	}
	out := &dto.ChatMessagesResponse{Success: true, RoomID: roomID, Messages: make([]dto.ChatMessageResponse, 0, len(list))}
	for _, m := range list {
		out.Messages = append(out.Messages, toChatMessageResponse(m))
	}
	return out, nil
}

// Open conversación del usuario con otherID para la vista de chat. Si la sala aún no
// existe devuelve un historial vacío con el ID ya calculado.
func (uc *ChatUseCase) Open(ctx context.Context, user dto.SessionUser, otherID string) (*dto.ChatMessagesResponse, error) {
	clienteID, asesorID, _, err := uc.pair(ctx, user, otherID)
	if err != nil {
		return nil, err
	}
	roomID := chat.RoomID(clienteID, asesorID)
	room, err := uc.chats.GetRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("chat: obtener sala: %w", err)
	}
	if room == nil {
		return &dto.ChatMessagesResponse{Success: true, RoomID: roomID, Messages: []dto.ChatMessageResponse{}}, nil
	}
	return uc.Messages(ctx, user, roomID)
}

// Contacts clientes asignados al asesor con la vista previa y los no leídos de cada sala.
func (uc *ChatUseCase) Contacts(ctx context.Context, asesorID string) ([]dto.ChatContact, error) {
	clientes, err := uc.clientes.ListByAsesor(ctx, asesorID)
	if err != nil {
		return nil, fmt.Errorf("chat: listar clientes: %w", err)
	}
	rooms, err := uc.chats.ListRoomsByAsesor(ctx, asesorID)
	if err != nil {
		return nil, fmt.Errorf("chat: listar salas: %w", err)
	}
	byID := make(map[string]*entity.ChatRoom, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	out := make([]dto.ChatContact, 0, len(clientes))
	for _, c := range clientes {
		contact := dto.ChatContact{
			UserID:  c.ID,
			Nombre:  c.NombreCompleto(),
			FotoURL: c.FotoPerfilURL,
			RoomID:  chat.RoomID(c.ID, asesorID),
		}
		if r, ok := byID[contact.RoomID]; ok {
			contact.LastMessage = chat.Preview(r.LastMessage, previewLength)
			contact.Unread = r.UnreadAsesor
		}
		out = append(out, contact)
	}
	return out, nil
}

func toChatMessageResponse(m *entity.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderType: m.SenderType,
		Text:       m.Text,
		Timestamp:  m.Timestamp,
	}
}
