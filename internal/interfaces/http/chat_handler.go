package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
)

// Textos de la vista de chat.
const (
	MsgChatSinAsesor   = "Aún no tienes un asesor asignado. Elige uno en la sección Asesores."
	MsgChatSinClientes = "Todavía no tienes clientes asignados."
)

// noContacts la vista del cliente no tiene lista lateral.
var noContacts []dto.ChatContact

// ChatHandler vistas de chat y API de mensajes.
type ChatHandler struct {
	chats    *usecase.ChatUseCase
	profiles *usecase.ProfileUseCase
}

// NewChatHandler construye el handler.
func NewChatHandler(chats *usecase.ChatUseCase, profiles *usecase.ProfileUseCase) *ChatHandler {
	return &ChatHandler{chats: chats, profiles: profiles}
}

// ClientePage GET /cliente/chat: conversación con el asesor asignado.
func (h *ChatHandler) ClientePage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cliente, err := h.profiles.GetCliente(ctx, GetUserID(c))
	if err != nil {
		return err
	}
	if !cliente.TieneAsesor() {
		return render(c, "chat", fiber.Map{"Contacts": noContacts, "Vacio": MsgChatSinAsesor})
	}
	asesorID := *cliente.AsesorAsignado
	room, err := h.chats.Open(ctx, sessionUser(c), asesorID)
	if err != nil {
		return err
	}
	contacto := ""
	if a, err := h.profiles.GetAsesor(ctx, asesorID); err == nil {
		contacto = a.NombreCompleto()
	}
	return render(c, "chat", fiber.Map{"Contacts": noContacts, "Contacto": contacto, "RecipientID": asesorID, "Room": room})
}

// AsesorPage GET /asesor/chat y /asesor/chat/:clienteId
func (h *ChatHandler) AsesorPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	contacts, err := h.chats.Contacts(ctx, GetUserID(c))
	if err != nil {
		return err
	}
	data := fiber.Map{"Contacts": contacts, "Vacio": MsgChatSinClientes}

	clienteID := c.Params("clienteId")
	if clienteID == "" {
		return render(c, "chat", data)
	}
	room, err := h.chats.Open(ctx, sessionUser(c), clienteID)
	if err != nil {
		return err
	}
	// Abrir la sala deja los no leídos en cero.
	for i := range contacts {
		if contacts[i].UserID == clienteID {
			contacts[i].Unread = 0
			data["Contacto"] = contacts[i].Nombre
		}
	}
	data["RecipientID"] = clienteID
	data["Room"] = room
	return render(c, "chat", data)
}

// Send godoc
// @Summary Enviar mensaje de chat
// @Description El timestamp (ms) lo aporta el navegador; solo se incrementa el contador del destinatario
// @Tags chat
// @Accept json
// @Produce json
// @Param body body dto.SendMessageRequest true "Mensaje"
// @Success 200 {object} dto.SendMessageResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Router /api/chat/mensajes [post]
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var in dto.SendMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Success: false, Message: MsgInvalidForm})
	}
	out, err := h.chats.SendMessage(c.UserContext(), sessionUser(c), in)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(out)
}

// Messages godoc
// @Summary Historial de una sala
// @Description Devuelve los mensajes en orden y pone en cero los no leídos de quien consulta
// @Tags chat
// @Produce json
// @Param roomId path string true "ID de la sala"
// @Success 200 {object} dto.ChatMessagesResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /api/chat/{roomId}/mensajes [get]
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	out, err := h.chats.Messages(c.UserContext(), sessionUser(c), c.Params("roomId"))
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.MessageResponse{Success: false, Message: "Sala no encontrada"})
	}
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(out)
}
