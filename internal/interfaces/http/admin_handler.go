package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/advisory"
	"github.com/jhoicas/asesoria-financiera/internal/application/auth"
	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/session"
)

const adminHome = "/admin"

// AdminHandler revisión de verificaciones y gestión de usuarios.
type AdminHandler struct {
	verification *advisory.VerificationUseCase
	accounts     *auth.AccountUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(verification *advisory.VerificationUseCase, accounts *auth.AccountUseCase) *AdminHandler {
	return &AdminHandler{verification: verification, accounts: accounts}
}

// Page GET /admin: asesores con secciones pendientes.
func (h *AdminHandler) Page(c *fiber.Ctx) error {
	list, err := h.verification.ListPending(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "admin", fiber.Map{"Pendientes": list})
}

// Review POST /admin/asesores/:id/revision
func (h *AdminHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewRequest
	if err := c.BodyParser(&in); err != nil {
		flash(c, session.FlashError, MsgInvalidForm)
		return c.Redirect(adminHome, fiber.StatusFound)
	}
	if err := h.verification.Review(c.UserContext(), c.Params("id"), in); err != nil {
		return flashError(c, err, adminHome)
	}
	verb := "aprobada"
	if !in.Approve {
		verb = "rechazada"
	}
	flash(c, session.FlashSuccess, fmt.Sprintf("Sección %s %s", in.Section, verb))
	return c.Redirect(adminHome, fiber.StatusFound)
}

// SetActive POST /admin/asesores/:id/activo
func (h *AdminHandler) SetActive(c *fiber.Ctx) error {
	active := c.FormValue("activo") == "true"
	if err := h.verification.SetActive(c.UserContext(), c.Params("id"), active); err != nil {
		return flashError(c, err, adminHome)
	}
	msg := "Asesor desactivado"
	if active {
		msg = "Asesor activado"
	}
	flash(c, session.FlashSuccess, msg)
	return c.Redirect(adminHome, fiber.StatusFound)
}

// Dossier GET /admin/asesores/:id/expediente
func (h *AdminHandler) Dossier(c *fiber.Ctx) error {
	pdf, filename, err := h.verification.Dossier(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}

// DeleteUser POST /admin/usuarios/:id/eliminar
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if c.Params("id") == GetUserID(c) {
		flash(c, session.FlashError, "No puedes eliminar tu propia cuenta")
		return c.Redirect(adminHome, fiber.StatusFound)
	}
	if err := h.accounts.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return flashError(c, err, adminHome)
	}
	flash(c, session.FlashSuccess, "Usuario eliminado")
	return c.Redirect(adminHome, fiber.StatusFound)
}
