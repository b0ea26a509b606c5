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
	"github.com/tu-usuario/invoice-pro/internal/application/auth"
	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/application/template"
	infrapdf "github.com/tu-usuario/invoice-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/invoice-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/invoice-pro/internal/interfaces/http"
	"github.com/tu-usuario/invoice-pro/pkg/config"
	"github.com/tu-usuario/invoice-pro/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	templateRepo := postgres.NewTemplateRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(userRepo, auth.Config{
		JWTSecret:  cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		ExpMinutes: cfg.JWT.Expiration,
	}, log)
	contactUC := billing.NewContactUseCase(contactRepo)
	templateUC := template.NewUseCase(templateRepo, log)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, contactRepo, templateRepo)

	pdfRenderer := infrapdf.NewMarotoInvoiceRenderer()
	pdfUC := billing.NewPDFUseCase(invoiceRepo, contactRepo, templateRepo, pdfRenderer, invoiceUC)

	// Presets compartidos (Default, Modern, Classic); idempotente.
	if err := templateUC.SeedDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("sembrar templates default")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invoice Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ContactUC:  contactUC,
		TemplateUC: templateUC,
		InvoiceUC:  invoiceUC,
		PDFUC:      pdfUC,
		JWTSecret:  cfg.JWT.Secret,
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
