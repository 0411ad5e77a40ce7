package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asesoria-financiera/internal/application/advisory"
	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	apphttp "github.com/jhoicas/asesoria-financiera/internal/interfaces/http"
)

func asesorVerificado(id string) entity.Asesor {
	return entity.Asesor{
		ID:           id,
		Email:        id + "@test.com",
		Nombre:       "Laura",
		Activo:       true,
		Verification: entity.KYCVerification{Status: entity.StatusVerificado},
		Titulo:       entity.TituloVerification{Status: entity.StatusVerificado},
	}
}

// ── Notificaciones ───────────────────────────────────────────────────────────

func TestNotificationSummary_UltimasPrimero(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedAsesor(asesorVerificado("a1"))
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"n1", "n2", "n3"} {
		env.store.SeedNotification(entity.Notification{ID: id, UserID: "a1", Message: id, Timestamp: base.Add(time.Duration(i) * time.Minute)})
	}
	tok := env.login(t, "a1", "a1@test.com", entity.UserTypeAsesor)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/api/asesor/notificaciones-resumen", nil), tok)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body dto.NotificationSummary
	decode(t, resp, &body)
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.UnreadCount)
	require.Len(t, body.LatestNotifications, 3)
	assert.Equal(t, "n3", body.LatestNotifications[0].ID)
	assert.Equal(t, "n1", body.LatestNotifications[2].ID)
}

func TestMarkRead_Desconocida404(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedAsesor(asesorVerificado("a1"))
	env.store.SeedNotification(entity.Notification{ID: "n1", UserID: "a1", Message: "hola", Timestamp: time.Now()})
	tok := env.login(t, "a1", "a1@test.com", entity.UserTypeAsesor)

	resp := env.do(t, jsonRequest(http.MethodPost, "/asesor/notificaciones/marcar-leida", dto.MarkReadRequest{NotificationID: "zz"}), tok)

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var body dto.MessageResponse
	decode(t, resp, &body)
	assert.False(t, body.Success)
	assert.Equal(t, apphttp.MsgNotificationNotFound, body.Message)
	assert.False(t, env.store.NotificationsOf("a1")[0].Read)
}

func TestMarkRead_SinID400(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login(t, "a1", "a1@test.com", entity.UserTypeAsesor)

	resp := env.do(t, jsonRequest(http.MethodPost, "/asesor/notificaciones/marcar-leida", dto.MarkReadRequest{}), tok)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMarkRead_Correcta(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedAsesor(asesorVerificado("a1"))
	env.store.SeedNotification(entity.Notification{ID: "n1", UserID: "a1", Message: "hola", Timestamp: time.Now()})
	tok := env.login(t, "a1", "a1@test.com", entity.UserTypeAsesor)

	resp := env.do(t, jsonRequest(http.MethodPost, "/asesor/notificaciones/marcar-leida", dto.MarkReadRequest{NotificationID: "n1"}), tok)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body dto.MessageResponse
	decode(t, resp, &body)
	assert.True(t, body.Success)
	assert.True(t, env.store.NotificationsOf("a1")[0].Read)
}

func TestNotificationsPage(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedAsesor(asesorVerificado("a1"))
	env.store.SeedNotification(entity.Notification{ID: "n1", UserID: "a1", Message: "Tienes un cliente nuevo", Timestamp: time.Now()})
	tok := env.login(t, "a1", "a1@test.com", entity.UserTypeAsesor)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/notificaciones", nil), tok)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Tienes un cliente nuevo")
}

// ── Asignación ───────────────────────────────────────────────────────────────

func TestAssign_AsesorNoAsignable400(t *testing.T) {
	env := newTestEnv(t)
	a := asesorVerificado("a1")
	a.Activo = false
	env.store.SeedAsesor(a)
	env.store.SeedCliente(entity.Cliente{ID: "c1", Email: "c1@test.com"})
	tok := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, jsonRequest(http.MethodPost, "/cliente/asignar-asesor", dto.AssignRequest{AsesorID: "a1"}), tok)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body dto.RedirectResponse
	decode(t, resp, &body)
	assert.False(t, body.Success)
	assert.Equal(t, advisory.RedirectBrowse, body.RedirectTo)
	c, _ := env.store.Cliente("c1")
	assert.False(t, c.TieneAsesor())
}

func TestAssign_Correcta(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedAsesor(asesorVerificado("a1"))
	env.store.SeedCliente(entity.Cliente{ID: "c1", Email: "c1@test.com", Nombre: "Carla"})
	tok := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, jsonRequest(http.MethodPost, "/cliente/asignar-asesor", dto.AssignRequest{AsesorID: "a1"}), tok)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body dto.RedirectResponse
	decode(t, resp, &body)
	assert.True(t, body.Success)
	assert.Equal(t, advisory.RedirectChat, body.RedirectTo)
	assert.Len(t, env.store.NotificationsOf("a1"), 1)
}

func TestBrowsePage_ListaAsignables(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedAsesor(asesorVerificado("a1"))
	inactivo := asesorVerificado("a2")
	inactivo.Nombre = "Oculto"
	inactivo.Activo = false
	env.store.SeedAsesor(inactivo)
	env.store.SeedCliente(entity.Cliente{ID: "c1", Email: "c1@test.com"})
	tok := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/cliente/asesores", nil), tok)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Laura")
	assert.NotContains(t, body, "Oculto")
}

// ── Calendario ───────────────────────────────────────────────────────────────

func TestCalendar_CrudDelDueño(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login(t, "a1", "a1@test.com", entity.UserTypeAsesor)
	otro := env.login(t, "a2", "a2@test.com", entity.UserTypeAsesor)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/calendario/eventos", dto.CalendarEventRequest{Title: "Revisión", Date: "2024-06-01"}), tok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var created dto.CalendarResult
	decode(t, resp, &created)
	require.True(t, created.Success)
	require.NotEmpty(t, created.EventID)

	resp = env.do(t, jsonRequest(http.MethodPut, "/api/calendario/eventos/"+created.EventID, dto.CalendarEventRequest{Title: "Ajena"}), otro)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.do(t, jsonRequest(http.MethodDelete, "/api/calendario/eventos/"+created.EventID, nil), otro)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/api/calendario/eventos", nil), tok)
	var list []dto.CalendarEventResponse
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Revisión", list[0].Title)
	assert.True(t, list[0].AllDay)

	resp = env.do(t, jsonRequest(http.MethodDelete, "/api/calendario/eventos/"+created.EventID, nil), tok)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	_, ok := env.store.Event(created.EventID)
	assert.False(t, ok)
}

func TestCalendar_SinTitulo400(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/calendario/eventos", dto.CalendarEventRequest{Date: "2024-06-01"}), tok)

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body dto.MessageResponse
	decode(t, resp, &body)
	assert.False(t, body.Success)
}

// ── Chat ─────────────────────────────────────────────────────────────────────

func seedPar(env *testEnv) {
	asesorID := "a1"
	env.store.SeedAsesor(asesorVerificado(asesorID))
	env.store.SeedCliente(entity.Cliente{ID: "c1", Email: "c1@test.com", Nombre: "Carla", AsesorAsignado: &asesorID})
}

func TestChat_EnviarYLeer(t *testing.T) {
	env := newTestEnv(t)
	seedPar(env)
	asesor := env.login(t, "a1", "a1@test.com", entity.UserTypeAsesor)
	cliente := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/chat/mensajes", dto.SendMessageRequest{
		RecipientID: "c1", Text: "Hola Carla", Timestamp: time.Now().UnixMilli(),
	}), asesor)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sent dto.SendMessageResponse
	decode(t, resp, &sent)
	assert.Equal(t, "chat_a1_c1", sent.RoomID)

	room, ok := env.store.Room("chat_a1_c1")
	require.True(t, ok)
	assert.Equal(t, 1, room.UnreadCliente)
	assert.Zero(t, room.UnreadAsesor)

	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/api/chat/chat_a1_c1/mensajes", nil), cliente)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var history dto.ChatMessagesResponse
	decode(t, resp, &history)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "Hola Carla", history.Messages[0].Text)

	room, _ = env.store.Room("chat_a1_c1")
	assert.Zero(t, room.UnreadCliente)
}

func TestChat_NoParticipante404(t *testing.T) {
	env := newTestEnv(t)
	seedPar(env)
	asesor := env.login(t, "a1", "a1@test.com", entity.UserTypeAsesor)
	env.do(t, jsonRequest(http.MethodPost, "/api/chat/mensajes", dto.SendMessageRequest{
		RecipientID: "c1", Text: "Hola", Timestamp: time.Now().UnixMilli(),
	}), asesor)
	intruso := env.login(t, "c9", "c9@test.com", entity.UserTypeCliente)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/api/chat/chat_a1_c1/mensajes", nil), intruso)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestChat_ClienteSinAsesorAsignado403(t *testing.T) {
	env := newTestEnv(t)
	env.store.SeedAsesor(asesorVerificado("a1"))
	env.store.SeedCliente(entity.Cliente{ID: "c1", Email: "c1@test.com"})
	cliente := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/chat/mensajes", dto.SendMessageRequest{
		RecipientID: "a1", Text: "Hola", Timestamp: time.Now().UnixMilli(),
	}), cliente)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestChat_PaginaDelCliente(t *testing.T) {
	env := newTestEnv(t)
	seedPar(env)
	cliente := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/cliente/chat", nil), cliente)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Laura")
	assert.Contains(t, body, `data-room="chat_a1_c1"`)
}
