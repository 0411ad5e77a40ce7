package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/session"
)

var perfilesRiesgo = []string{entity.PerfilConservador, entity.PerfilModerado, entity.PerfilAgresivo}

// ProfileHandler perfiles de cliente y asesor.
type ProfileHandler struct {
	uc *usecase.ProfileUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// ClientePage GET /cliente/perfil
func (h *ProfileHandler) ClientePage(c *fiber.Ctx) error {
	cliente, err := h.uc.GetCliente(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return render(c, "cliente_perfil", fiber.Map{"Cliente": cliente, "PerfilesRiesgo": perfilesRiesgo})
}

// UpdateCliente POST /cliente/perfil
func (h *ProfileHandler) UpdateCliente(c *fiber.Ctx) error {
	var in dto.ClienteProfileRequest
	if err := c.BodyParser(&in); err != nil {
		flash(c, session.FlashError, MsgInvalidForm)
		return c.Redirect("/cliente/perfil", fiber.StatusFound)
	}
	if _, err := h.uc.UpdateCliente(c.UserContext(), GetUserID(c), in); err != nil {
		return flashError(c, err, "/cliente/perfil")
	}
	flash(c, session.FlashSuccess, "Perfil actualizado")
	return c.Redirect("/cliente/perfil", fiber.StatusFound)
}

// AsesorPage GET /asesor/perfil
func (h *ProfileHandler) AsesorPage(c *fiber.Ctx) error {
	asesor, err := h.uc.GetAsesor(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return render(c, "asesor_perfil", fiber.Map{"Asesor": asesor})
}

// UpdateAsesor POST /asesor/perfil
func (h *ProfileHandler) UpdateAsesor(c *fiber.Ctx) error {
	var in dto.AsesorProfileRequest
	if err := c.BodyParser(&in); err != nil {
		flash(c, session.FlashError, MsgInvalidForm)
		return c.Redirect("/asesor/perfil", fiber.StatusFound)
	}
	if _, err := h.uc.UpdateAsesor(c.UserContext(), GetUserID(c), in); err != nil {
		return flashError(c, err, "/asesor/perfil")
	}
	flash(c, session.FlashSuccess, "Perfil actualizado")
	return c.Redirect("/asesor/perfil", fiber.StatusFound)
}

// UploadPhoto POST /cliente/perfil/foto y /asesor/perfil/foto (campo "foto").
func (h *ProfileHandler) UploadPhoto(c *fiber.Ctx) error {
	back := "/" + GetUserType(c) + "/perfil"
	img, closer, err := formImage(c, "foto")
	if err != nil {
		return err
	}
	if img == nil {
		flash(c, session.FlashError, "Selecciona una imagen")
		return c.Redirect(back, fiber.StatusFound)
	}
	defer closer.Close()

	if _, err := h.uc.UploadPhoto(c.UserContext(), GetUserID(c), GetUserType(c), *img); err != nil {
		return flashError(c, err, back)
	}
	flash(c, session.FlashSuccess, "Foto actualizada")
	return c.Redirect(back, fiber.StatusFound)
}
