package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/session"
	"github.com/jhoicas/asesoria-financiera/pkg/logger"
)

// Mensajes genéricos.
const (
	MsgInternal    = "Ocurrió un error inesperado. Inténtalo de nuevo"
	MsgInvalidForm = "Formulario inválido"
)

// ErrorHandler responde los errores que los handlers no tradujeron. Los de dominio usan su
// status; los inesperados se registran con el request id y se responden 500 con un mensaje
// genérico.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		code, msg := classify(err)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code, msg = fe.Code, fe.Message
		} else if code == fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("request_id", RequestID(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error no controlado")
		}
		if isAPI(c) || strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) {
			return c.Status(code).JSON(dto.MessageResponse{Success: false, Message: msg})
		}
		if c.App().Config().Views != nil {
			if rerr := c.Status(code).Render("error", fiber.Map{"Status": code, "Message": msg}); rerr == nil {
				return nil
			}
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(code).SendString(msg)
	}
}

// classify traduce un error de dominio a status y mensaje para el usuario.
// Status 500 significa que el error no es de dominio y debe llegar al ErrorHandler.
func classify(err error) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, strings.Join(verr.Messages, ". ")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "Recurso no encontrado"
	case errors.Is(err, domain.ErrAdvisorNotAssignable):
		return fiber.StatusBadRequest, "El asesor seleccionado no está verificado o no está activo"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "Datos inválidos"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, MsgAccessDenied
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "Email o contraseña incorrectos"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "El email ya está registrado"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "La operación no es válida en el estado actual"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests, "Demasiados intentos fallidos. Inténtalo más tarde"
	case errors.Is(err, domain.ErrWeakPassword):
		return fiber.StatusBadRequest, "La contraseña es demasiado débil"
	case errors.Is(err, domain.ErrUpstream):
		return fiber.StatusBadGateway, "Servicio externo no disponible. Inténtalo más tarde"
	}
	return fiber.StatusInternalServerError, MsgInternal
}

// jsonError responde {success:false, message} para errores de dominio; el resto sube al ErrorHandler.
func jsonError(c *fiber.Ctx, err error) error {
	code, msg := classify(err)
	if code == fiber.StatusInternalServerError {
		return err
	}
	return c.Status(code).JSON(dto.MessageResponse{Success: false, Message: msg})
}

// flashError agrega el mensaje del error de dominio como flash y redirige a target.
func flashError(c *fiber.Ctx, err error, target string) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		flash(c, session.FlashError, verr.Messages...)
		return c.Redirect(target, fiber.StatusFound)
	}
	code, msg := classify(err)
	if code == fiber.StatusInternalServerError {
		return err
	}
	flash(c, session.FlashError, msg)
	return c.Redirect(target, fiber.StatusFound)
}
