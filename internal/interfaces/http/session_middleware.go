package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/session"
	"github.com/jhoicas/asesoria-financiera/pkg/logger"
)

// Locals con los datos de la sesión, disponibles para los handlers.
const (
	LocalUserID    = "userId"
	LocalUserEmail = "userEmail"
	LocalUserType  = "userType"
	LocalUserRole  = "userRole"

	localSession = "session"
	localIsAdmin = "isAdmin"
)

// SessionConfig cookie y almacén de sesión.
type SessionConfig struct {
	Store      session.Store
	CookieName string
	TTL        time.Duration
	Secure     bool
	Admins     AdminEmails
}

// AdminEmails correos con acceso al panel de administración (en minúsculas).
type AdminEmails map[string]struct{}

// NewAdminEmails normaliza la lista de configuración.
func NewAdminEmails(list []string) AdminEmails {
	out := make(AdminEmails, len(list))
	for _, e := range list {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out[e] = struct{}{}
		}
	}
	return out
}

// Contains indica si email está en la lista.
func (a AdminEmails) Contains(email string) bool {
	_, ok := a[strings.ToLower(strings.TrimSpace(email))]
	return ok && email != ""
}

// webSession sesión del request en curso; el middleware la persiste al terminar.
type webSession struct {
	data    *session.Data
	token   string
	renew   bool
	destroy bool
}

// Sessions carga la sesión desde la cookie, expone userId/userEmail/userType en Locals y,
// después del handler, la guarda con expiración deslizante (o la borra).
func Sessions(cfg SessionConfig, log *logger.Logger) fiber.Handler {
	log = log.Component("session")
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cfg.CookieName)
		data, err := cfg.Store.Load(c.UserContext(), token)
		if err != nil {
			log.Warn().Err(err).Msg("cargar sesión")
		}
		if data == nil {
			data = &session.Data{}
		}
		s := &webSession{data: data, token: token}
		c.Locals(localSession, s)
		c.Locals(LocalUserID, data.UserID)
		c.Locals(LocalUserEmail, data.UserEmail)
		c.Locals(LocalUserType, data.UserType)
		c.Locals(localIsAdmin, data.Authenticated() && cfg.Admins.Contains(data.UserEmail))

		handlerErr := c.Next()

		if err := persistSession(c, cfg, s); err != nil {
			log.Error().Err(err).Msg("guardar sesión")
		}
		return handlerErr
	}
}

func persistSession(c *fiber.Ctx, cfg SessionConfig, s *webSession) error {
	ctx := c.UserContext()
	if s.destroy || s.data.Empty() {
		if s.token == "" {
			return nil
		}
		clearSessionCookie(c, cfg)
		return cfg.Store.Destroy(ctx, s.token)
	}
	token := s.token
	if s.renew && token != "" {
		if err := cfg.Store.Destroy(ctx, token); err != nil {
			return err
		}
		token = ""
	}
	token, err := cfg.Store.Save(ctx, token, s.data, cfg.TTL)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.TTL),
		MaxAge:   int(cfg.TTL.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(c *fiber.Ctx, cfg SessionConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func currentSession(c *fiber.Ctx) *webSession {
	if s, ok := c.Locals(localSession).(*webSession); ok {
		return s
	}
	// sin middleware (tests de handlers aislados): sesión efímera
	s := &webSession{data: &session.Data{}}
	c.Locals(localSession, s)
	return s
}

// startSession inicia sesión con un ID nuevo.
func startSession(c *fiber.Ctx, u *dto.SessionUser) {
	s := currentSession(c)
	s.data.UserID = u.ID
	s.data.UserEmail = u.Email
	s.data.UserType = u.UserType
	s.renew = true
}

// endSession destruye la sesión al terminar el request.
func endSession(c *fiber.Ctx) {
	currentSession(c).destroy = true
}

// flash agrega mensajes que se muestran en la próxima página.
func flash(c *fiber.Ctx, kind string, msgs ...string) {
	currentSession(c).data.AddFlash(kind, msgs...)
}

// GetUserID devuelve el ID del usuario de la sesión ("" si no hay).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetUserEmail devuelve el email del usuario de la sesión.
func GetUserEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserEmail).(string)
	return s
}

// GetUserType devuelve cliente o asesor.
func GetUserType(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserType).(string)
	return s
}

// GetRole devuelve "admin" cuando RequireAdmin autorizó el request.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserRole).(string)
	return s
}

// sessionUser usuario de la sesión para los casos de uso.
func sessionUser(c *fiber.Ctx) dto.SessionUser {
	return dto.SessionUser{ID: GetUserID(c), Email: GetUserEmail(c), UserType: GetUserType(c)}
}

// render pinta una página con los datos comunes del layout y consume los mensajes flash.
func render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Flash"] = currentSession(c).data.TakeFlash()
	if u := sessionUser(c); u.ID != "" {
		data["User"] = &u
	}
	data["IsAdmin"], _ = c.Locals(localIsAdmin).(bool)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Render(name, data)
}
