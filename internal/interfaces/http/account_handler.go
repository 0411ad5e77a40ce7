package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/auth"
	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/session"
)

// AccountHandler registro, inicio y cierre de sesión y cambio de contraseña.
type AccountHandler struct {
	accounts *auth.AccountUseCase
	password *auth.PasswordUseCase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(accounts *auth.AccountUseCase, password *auth.PasswordUseCase) *AccountHandler {
	return &AccountHandler{accounts: accounts, password: password}
}

// homeFor página inicial de cada tipo de usuario.
func homeFor(userType string) string {
	if userType == entity.UserTypeAsesor {
		return "/asesor/perfil"
	}
	return "/cliente/perfil"
}

// Home redirige al perfil del usuario o al login.
func (h *AccountHandler) Home(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return c.Redirect("/login", fiber.StatusFound)
	}
	return c.Redirect(homeFor(GetUserType(c)), fiber.StatusFound)
}

// LoginPage GET /login
func (h *AccountHandler) LoginPage(c *fiber.Ctx) error {
	if GetUserID(c) != "" {
		return c.Redirect(homeFor(GetUserType(c)), fiber.StatusFound)
	}
	return render(c, "login", fiber.Map{"Email": ""})
}

// Login POST /login
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		flash(c, session.FlashError, MsgInvalidForm)
		return c.Redirect("/login", fiber.StatusFound)
	}
	user, err := h.accounts.Login(c.UserContext(), in)
	if err != nil {
		return flashError(c, err, "/login")
	}
	startSession(c, user)
	return c.Redirect(homeFor(user.UserType), fiber.StatusFound)
}

// RegisterPage GET /registro
func (h *AccountHandler) RegisterPage(c *fiber.Ctx) error {
	return render(c, "registro", fiber.Map{"Input": dto.RegisterRequest{}})
}

// Register POST /registro. Los errores vuelven a pintar el formulario con lo enviado
// (sin contraseñas).
func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		flash(c, session.FlashError, MsgInvalidForm)
		return c.Redirect("/registro", fiber.StatusFound)
	}
	user, err := h.accounts.Register(c.UserContext(), in)
	if err != nil {
		in.Password, in.ConfirmPassword = "", ""
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			flash(c, session.FlashError, verr.Messages...)
		case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrWeakPassword), errors.Is(err, domain.ErrUpstream):
			_, msg := classify(err)
			flash(c, session.FlashError, msg)
		default:
			return err
		}
		c.Status(fiber.StatusBadRequest)
		return render(c, "registro", fiber.Map{"Input": in})
	}
	startSession(c, user)
	flash(c, session.FlashSuccess, "Cuenta creada. Completa tu perfil")
	return c.Redirect(homeFor(user.UserType), fiber.StatusFound)
}

// Logout POST /logout
func (h *AccountHandler) Logout(c *fiber.Ctx) error {
	endSession(c)
	return c.Redirect("/login", fiber.StatusFound)
}

// PasswordPage GET /cambiar-password
func (h *AccountHandler) PasswordPage(c *fiber.Ctx) error {
	return render(c, "cambiar_password", nil)
}

// ChangePassword POST /cambiar-password
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		flash(c, session.FlashError, MsgInvalidForm)
		return c.Redirect("/cambiar-password", fiber.StatusFound)
	}
	if err := h.password.ChangePassword(c.UserContext(), GetUserEmail(c), in); err != nil {
		flash(c, session.FlashError, auth.PasswordErrorMessages(err)...)
		return c.Redirect("/cambiar-password", fiber.StatusFound)
	}
	flash(c, session.FlashSuccess, auth.MsgPasswordChanged)
	return c.Redirect("/cambiar-password", fiber.StatusFound)
}
