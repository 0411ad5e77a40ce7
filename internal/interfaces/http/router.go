package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/advisory"
	"github.com/jhoicas/asesoria-financiera/internal/application/auth"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AccountUC      *auth.AccountUseCase
	PasswordUC     *auth.PasswordUseCase
	ProfileUC      *usecase.ProfileUseCase
	NotificationUC *usecase.NotificationUseCase
	ChatUC         *usecase.ChatUseCase
	CalendarUC     *usecase.CalendarUseCase
	AssignmentUC   *advisory.AssignmentUseCase
	VerificationUC *advisory.VerificationUseCase
	Session        SessionConfig
	DB             Pinger
	Log            *logger.Logger
}

// Router registra middlewares, páginas y rutas JSON.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Log))

	health := NewHealthHandler(deps.DB)
	app.Get("/health", health.Check)

	app.Use(Sessions(deps.Session, deps.Log))

	account := NewAccountHandler(deps.AccountUC, deps.PasswordUC)
	profile := NewProfileHandler(deps.ProfileUC)
	notifications := NewNotificationHandler(deps.NotificationUC)
	advisoryHandler := NewAdvisoryHandler(deps.AssignmentUC, deps.VerificationUC, deps.ProfileUC)
	chat := NewChatHandler(deps.ChatUC, deps.ProfileUC)
	calendar := NewCalendarHandler(deps.CalendarUC)
	admin := NewAdminHandler(deps.VerificationUC, deps.AccountUC)

	// Público
	app.Get("/", account.Home)
	app.Get("/login", account.LoginPage)
	app.Post("/login", account.Login)
	app.Get("/registro", account.RegisterPage)
	app.Post("/registro", account.Register)
	app.Post("/logout", account.Logout)

	// Cualquier usuario con sesión
	authed := RequireSession()
	app.Get("/cambiar-password", authed, account.PasswordPage)
	app.Post("/cambiar-password", authed, account.ChangePassword)
	app.Get("/notificaciones", authed, notifications.Page)
	app.Post("/asesor/notificaciones/marcar-leida", authed, notifications.MarkRead)
	app.Get("/calendario", authed, calendar.Page)

	api := app.Group("/api", authed)
	api.Get("/asesor/notificaciones-resumen", notifications.Summary)
	api.Get("/calendario/eventos", calendar.List)
	api.Post("/calendario/eventos", calendar.Create)
	api.Put("/calendario/eventos/:id", calendar.Update)
	api.Delete("/calendario/eventos/:id", calendar.Delete)
	api.Post("/chat/mensajes", chat.Send)
	api.Get("/chat/:roomId/mensajes", chat.Messages)

	// Área del cliente
	cliente := app.Group("/cliente", authed, RequireUserType(entity.UserTypeCliente))
	cliente.Get("/perfil", profile.ClientePage)
	cliente.Post("/perfil", profile.UpdateCliente)
	cliente.Post("/perfil/foto", profile.UploadPhoto)
	cliente.Get("/asesores", advisoryHandler.BrowsePage)
	cliente.Post("/asignar-asesor", advisoryHandler.Assign)
	cliente.Get("/chat", chat.ClientePage)

	// Área del asesor
	asesor := app.Group("/asesor", authed, RequireUserType(entity.UserTypeAsesor))
	asesor.Get("/perfil", profile.AsesorPage)
	asesor.Post("/perfil", profile.UpdateAsesor)
	asesor.Post("/perfil/foto", profile.UploadPhoto)
	asesor.Get("/verificacion", advisoryHandler.VerificationPage)
	asesor.Post("/verificacion", advisoryHandler.SubmitVerification)
	asesor.Get("/clientes", advisoryHandler.ClientsPage)
	asesor.Get("/chat", chat.AsesorPage)
	asesor.Get("/chat/:clienteId", chat.AsesorPage)

	// Administración
	adm := app.Group("/admin", authed, RequireAdmin(deps.Session.Admins))
	adm.Get("/", admin.Page)
	adm.Post("/asesores/:id/revision", admin.Review)
	adm.Post("/asesores/:id/activo", admin.SetActive)
	adm.Get("/asesores/:id/expediente", admin.Dossier)
	adm.Post("/usuarios/:id/eliminar", admin.DeleteUser)
}
