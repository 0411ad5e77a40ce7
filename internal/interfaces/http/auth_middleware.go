package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
)

// MsgAccessDenied respuesta de los accesos no permitidos.
const MsgAccessDenied = "Acceso denegado"

// isAPI rutas JSON bajo /api.
func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// RequireSession exige un userId en la sesión. Las páginas redirigen a /login sin cuerpo;
// las rutas /api responden 401 JSON.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) != "" {
			return c.Next()
		}
		if isAPI(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.MessageResponse{Success: false, Message: "Debes iniciar sesión"})
		}
		return c.Redirect("/login", fiber.StatusFound)
	}
}

// RequireAdmin exige que el email de la sesión esté en la lista de administradores.
// Si no, 403 en texto plano; si sí, marca userRole = "admin".
func RequireAdmin(admins AdminEmails) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !admins.Contains(GetUserEmail(c)) {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.Status(fiber.StatusForbidden).SendString(MsgAccessDenied)
		}
		c.Locals(LocalUserRole, "admin")
		return c.Next()
	}
}

// RequireUserType restringe la ruta a un tipo de usuario (cliente o asesor).
func RequireUserType(userType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserType(c) == userType {
			return c.Next()
		}
		if isAPI(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.MessageResponse{Success: false, Message: MsgAccessDenied})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(fiber.StatusForbidden).SendString(MsgAccessDenied)
	}
}
