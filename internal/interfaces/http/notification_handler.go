package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
)

// Mensajes de notificaciones.
const (
	MsgNotificationMissing  = "ID de notificación requerido"
	MsgNotificationNotFound = "Notificación no encontrada"
	MsgNotificationRead     = "Notificación marcada como leída"
)

// NotificationHandler resumen, listado y lectura de notificaciones.
type NotificationHandler struct {
	uc *usecase.NotificationUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// Summary godoc
// @Summary Resumen de notificaciones
// @Description No leídas y las 5 más recientes del usuario en sesión
// @Tags notificaciones
// @Produce json
// @Success 200 {object} dto.NotificationSummary
// @Failure 401 {object} dto.MessageResponse
// @Router /api/asesor/notificaciones-resumen [get]
func (h *NotificationHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary Marcar notificación como leída
// @Tags notificaciones
// @Accept json
// @Produce json
// @Param body body dto.MarkReadRequest true "Notificación"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /asesor/notificaciones/marcar-leida [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	var in dto.MarkReadRequest
	if err := c.BodyParser(&in); err != nil || in.NotificationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Success: false, Message: MsgNotificationMissing})
	}
	err := h.uc.MarkRead(c.UserContext(), GetUserID(c), in.NotificationID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.MessageResponse{Success: false, Message: MsgNotificationNotFound})
	case err != nil:
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: MsgNotificationRead})
}

// Page GET /notificaciones
func (h *NotificationHandler) Page(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return render(c, "notificaciones", fiber.Map{"Notifications": list})
}
