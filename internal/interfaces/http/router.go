package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/invoice-pro/internal/application/auth"
	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/application/template"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	ContactUC  *billing.ContactUseCase
	TemplateUC *template.UseCase
	InvoiceUC  *billing.InvoiceUseCase
	PDFUC      *billing.PDFUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Contacts (protegido)
	contacts := protected.Group("/contacts")
	contactHandler := NewContactHandler(deps.ContactUC)
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/", contactHandler.List)
	contacts.Get("/:id", contactHandler.GetByID)
	contacts.Put("/:id", contactHandler.Update)
	contacts.Delete("/:id", contactHandler.Delete)

	// Templates (protegido)
	templates := protected.Group("/templates")
	templateHandler := NewTemplateHandler(deps.TemplateUC)
	templates.Post("/", templateHandler.Create)
	templates.Get("/", templateHandler.List)
	templates.Get("/:id", templateHandler.GetByID)
	templates.Put("/:id", templateHandler.Update)
	templates.Delete("/:id", templateHandler.Delete)

	// Invoices (protegido). Las rutas fijas van antes que /:id.
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/grouped", invoiceHandler.Grouped)
	invoices.Post("/preview/pdf", invoiceHandler.PreviewPDF)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
}
