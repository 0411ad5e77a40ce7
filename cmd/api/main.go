package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/asesoria-financiera/internal/application/advisory"
	"github.com/jhoicas/asesoria-financiera/internal/application/auth"
	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/identity"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/imagehost"
	infrapdf "github.com/jhoicas/asesoria-financiera/internal/infrastructure/pdf"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/postgres"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/asesoria-financiera/internal/interfaces/http"
	"github.com/jhoicas/asesoria-financiera/pkg/config"
	"github.com/jhoicas/asesoria-financiera/pkg/logger"
	"github.com/jhoicas/asesoria-financiera/pkg/validation"
	"github.com/jhoicas/asesoria-financiera/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	for _, m := range applied {
		log.Info().Str("migration", m).Msg("migración aplicada")
	}

	userRepo := postgres.NewUserRepository(pool)
	clienteRepo := postgres.NewClienteRepository(pool)
	asesorRepo := postgres.NewAsesorRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)
	calendarRepo := postgres.NewCalendarRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Identidad: API REST si hay clave; si no, contraseñas locales con bcrypt.
	var identityProvider ports.IdentityProvider
	if cfg.Identity.APIKey != "" {
		identityProvider = identity.NewRESTProvider(cfg.Identity.APIKey, cfg.Identity.BaseURL)
	} else {
		log.Warn().Msg("IDENTITY_API_KEY vacío: se usa el proveedor de identidad local")
		identityProvider = identity.NewLocalProvider(userRepo)
	}

	var images ports.ImageHost
	switch cfg.Image.Provider {
	case "minio":
		uploader, err := imagehost.NewMinioUploader(cfg.Image.Minio)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente MinIO")
		}
		if err := uploader.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Image.Minio.Bucket).Msg("bucket de imágenes")
		}
		images = uploader
	default:
		images = imagehost.NewRESTUploader(cfg.Image.ClientID, cfg.Image.UploadURL)
	}

	var sessions session.Store
	if cfg.Session.RedisURL != "" {
		redisStore, err := session.NewRedisStore(cfg.Session.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		sessions = session.NewCookieStore(cfg.Session.Secret, cfg.Session.Issuer)
	}

	validator := validation.New()
	notificationUC := usecase.NewNotificationUseCase(notificationRepo, userRepo, log)
	profileUC := usecase.NewProfileUseCase(clienteRepo, asesorRepo, images, validator)
	chatUC := usecase.NewChatUseCase(txRunner, chatRepo, clienteRepo)
	calendarUC := usecase.NewCalendarUseCase(calendarRepo)
	accountUC := auth.NewAccountUseCase(txRunner, userRepo, identityProvider, validator)
	passwordUC := auth.NewPasswordUseCase(identityProvider)
	assignmentUC := advisory.NewAssignmentUseCase(txRunner, clienteRepo, asesorRepo)
	verificationUC := advisory.NewVerificationUseCase(
		txRunner, asesorRepo, notificationUC, profileUC, infrapdf.NewMarotoDossierGenerator(), validator,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(usecase.MaxImageSize) * 6,
		Views:        httpRouter.NewViews(web.Templates, "templates"),
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Asesoría Financiera API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AccountUC:      accountUC,
		PasswordUC:     passwordUC,
		ProfileUC:      profileUC,
		NotificationUC: notificationUC,
		ChatUC:         chatUC,
		CalendarUC:     calendarUC,
		AssignmentUC:   assignmentUC,
		VerificationUC: verificationUC,
		Session: httpRouter.SessionConfig{
			Store:      sessions,
			CookieName: cfg.Session.CookieName,
			TTL:        time.Duration(cfg.Session.TTLMinutes) * time.Minute,
			Secure:     cfg.App.IsProduction(),
			Admins:     httpRouter.NewAdminEmails(cfg.Admin.Emails),
		},
		DB:  pool,
		Log: log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
