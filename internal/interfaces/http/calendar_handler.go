package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
)

// MsgEventNotFound respuesta para eventos inexistentes o de otro usuario.
const MsgEventNotFound = "Evento no encontrado"

// CalendarHandler calendario de asesores y clientes.
type CalendarHandler struct {
	uc *usecase.CalendarUseCase
}

// NewCalendarHandler construye el handler.
func NewCalendarHandler(uc *usecase.CalendarUseCase) *CalendarHandler {
	return &CalendarHandler{uc: uc}
}

// Page GET /calendario
func (h *CalendarHandler) Page(c *fiber.Ctx) error {
	events, err := h.uc.List(c.UserContext(), sessionUser(c))
	if err != nil {
		return err
	}
	return render(c, "calendario", fiber.Map{"Events": events})
}

// List godoc
// @Summary Eventos del usuario en sesión
// @Tags calendario
// @Produce json
// @Success 200 {array} dto.CalendarEventResponse
// @Router /api/calendario/eventos [get]
func (h *CalendarHandler) List(c *fiber.Ctx) error {
	events, err := h.uc.List(c.UserContext(), sessionUser(c))
	if err != nil {
		return err
	}
	return c.JSON(events)
}

// Create godoc
// @Summary Crear evento
// @Tags calendario
// @Accept json
// @Produce json
// @Param body body dto.CalendarEventRequest true "Evento (title y date obligatorios)"
// @Success 200 {object} dto.CalendarResult
// @Failure 400 {object} dto.MessageResponse
// @Router /api/calendario/eventos [post]
func (h *CalendarHandler) Create(c *fiber.Ctx) error {
	var in dto.CalendarEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Success: false, Message: MsgInvalidForm})
	}
	out, err := h.uc.Create(c.UserContext(), sessionUser(c), in)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary Modificar evento propio
// @Tags calendario
// @Accept json
// @Produce json
// @Param id path string true "ID del evento"
// @Param body body dto.CalendarEventRequest true "Campos a modificar"
// @Success 200 {object} dto.CalendarResult
// @Failure 404 {object} dto.MessageResponse
// @Router /api/calendario/eventos/{id} [put]
func (h *CalendarHandler) Update(c *fiber.Ctx) error {
	var in dto.CalendarEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Success: false, Message: MsgInvalidForm})
	}
	out, err := h.uc.Update(c.UserContext(), sessionUser(c), c.Params("id"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary Eliminar evento propio
// @Tags calendario
// @Produce json
// @Param id path string true "ID del evento"
// @Success 200 {object} dto.CalendarResult
// @Failure 404 {object} dto.MessageResponse
// @Router /api/calendario/eventos/{id} [delete]
func (h *CalendarHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), sessionUser(c), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

func (h *CalendarHandler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.MessageResponse{Success: false, Message: MsgEventNotFound})
	}
	return jsonError(c, err)
}
