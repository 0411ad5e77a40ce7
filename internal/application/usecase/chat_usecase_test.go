package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asesoria-financiera/internal/application/apptest"
	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

var (
	asesorA1  = dto.SessionUser{ID: "a1", Email: "a1@test.com", UserType: entity.UserTypeAsesor}
	clienteC1 = dto.SessionUser{ID: "c1", Email: "c1@test.com", UserType: entity.UserTypeCliente}
)

func chatFixture(t *testing.T) (*apptest.Store, *usecase.ChatUseCase) {
	t.Helper()
	store := apptest.NewStore()
	asesorID := "a1"
	store.SeedAsesor(entity.Asesor{ID: "a1", ClientesAsignados: []string{"c1"}})
	store.SeedCliente(entity.Cliente{ID: "c1", Nombre: "Carla", AsesorAsignado: &asesorID})
	store.SeedCliente(entity.Cliente{ID: "c2", Nombre: "Otro"})
	return store, usecase.NewChatUseCase(store, store.Chats(), store.Clientes())
}

func TestSendMessage_CreaSalaYCuentaSoloDestinatario(t *testing.T) {
	store, uc := chatFixture(t)
	ts := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

	out, err := uc.SendMessage(context.Background(), asesorA1, dto.SendMessageRequest{
		RecipientID: "c1", Text: " Hola Carla ", Timestamp: ts.UnixMilli(),
	})
	require.NoError(t, err)
	assert.Equal(t, "chat_a1_c1", out.RoomID)
	assert.True(t, ts.Equal(out.Message.Timestamp), "el timestamp es el del remitente")
	assert.Equal(t, "Hola Carla", out.Message.Text)

	room, ok := store.Room("chat_a1_c1")
	require.True(t, ok)
	assert.Equal(t, 1, room.UnreadCliente)
	assert.Equal(t, 0, room.UnreadAsesor)
	assert.Equal(t, "Hola Carla", room.LastMessage)
	assert.Equal(t, "a1", room.LastSenderID)
	require.NotNil(t, room.LastMessageAt)
	assert.True(t, ts.Equal(*room.LastMessageAt))
}

func TestSendMessage_ClienteAAsesor(t *testing.T) {
	store, uc := chatFixture(t)

	_, err := uc.SendMessage(context.Background(), clienteC1, dto.SendMessageRequest{
		RecipientID: "a1", Text: "Buenos días", Timestamp: time.Now().UnixMilli(),
	})
	require.NoError(t, err)
	room, _ := store.Room("chat_a1_c1")
	assert.Equal(t, 1, room.UnreadAsesor)
	assert.Equal(t, 0, room.UnreadCliente)
}

func TestSendMessage_ParNoAsignado(t *testing.T) {
	_, uc := chatFixture(t)

	_, err := uc.SendMessage(context.Background(), asesorA1, dto.SendMessageRequest{
		RecipientID: "c2", Text: "Hola", Timestamp: time.Now().UnixMilli(),
	})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestSendMessage_TextoVacio(t *testing.T) {
	_, uc := chatFixture(t)

	_, err := uc.SendMessage(context.Background(), asesorA1, dto.SendMessageRequest{RecipientID: "c1", Text: "   "})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Messages, "El mensaje no puede estar vacío")
	assert.Contains(t, verr.Messages, "Falta la fecha del mensaje")
}

func TestMessages_ReiniciaContadorDelLector(t *testing.T) {
	store, uc := chatFixture(t)
	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 3; i++ {
		_, err := uc.SendMessage(ctx, asesorA1, dto.SendMessageRequest{
			RecipientID: "c1", Text: "m", Timestamp: base.Add(time.Duration(i) * time.Second).UnixMilli(),
		})
		require.NoError(t, err)
	}
	_, err := uc.SendMessage(ctx, clienteC1, dto.SendMessageRequest{RecipientID: "a1", Text: "r", Timestamp: base.Add(time.Minute).UnixMilli()})
	require.NoError(t, err)

	out, err := uc.Messages(ctx, clienteC1, "chat_a1_c1")
	require.NoError(t, err)
	assert.Len(t, out.Messages, 4)
	assert.Equal(t, "r", out.Messages[3].Text)

	room, _ := store.Room("chat_a1_c1")
	assert.Equal(t, 0, room.UnreadCliente)
	assert.Equal(t, 1, room.UnreadAsesor, "leer no toca el contador del otro lado")
}

func TestMessages_NoParticipante(t *testing.T) {
	_, uc := chatFixture(t)
	ctx := context.Background()
	_, err := uc.SendMessage(ctx, asesorA1, dto.SendMessageRequest{RecipientID: "c1", Text: "m", Timestamp: time.Now().UnixMilli()})
	require.NoError(t, err)

	_, err = uc.Messages(ctx, dto.SessionUser{ID: "c2", UserType: entity.UserTypeCliente}, "chat_a1_c1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOpen_SalaNuevaVacia(t *testing.T) {
	_, uc := chatFixture(t)

	out, err := uc.Open(context.Background(), clienteC1, "a1")
	require.NoError(t, err)
	assert.Equal(t, "chat_a1_c1", out.RoomID)
	assert.Empty(t, out.Messages)
}

func TestContacts_IncluyeNoLeidos(t *testing.T) {
	_, uc := chatFixture(t)
	ctx := context.Background()
	_, err := uc.SendMessage(ctx, clienteC1, dto.SendMessageRequest{RecipientID: "a1", Text: "Hola", Timestamp: time.Now().UnixMilli()})
	require.NoError(t, err)

	contacts, err := uc.Contacts(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "c1", contacts[0].UserID)
	assert.Equal(t, 1, contacts[0].Unread)
	assert.Equal(t, "Hola", contacts[0].LastMessage)
}
