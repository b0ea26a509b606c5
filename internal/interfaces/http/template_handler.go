package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/application/template"
)

// TemplateHandler maneja las peticiones HTTP de templates (protegido).
type TemplateHandler struct {
	uc *template.UseCase
}

// NewTemplateHandler construye el handler.
func NewTemplateHandler(uc *template.UseCase) *TemplateHandler {
	return &TemplateHandler{uc: uc}
}

// Create crea un template privado del usuario.
// POST /api/templates
func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tmpl, err := h.uc.CreateTemplate(c.Context(), userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tmpl)
}

// List lista los templates visibles (defaults compartidos + propios).
// GET /api/templates
func (h *TemplateHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	templates, err := h.uc.ListTemplates(c.Context(), userID, page)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(templates)
}

// GetByID obtiene un template visible.
// GET /api/templates/:id
func (h *TemplateHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	tmpl, err := h.uc.GetTemplate(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(tmpl)
}

// Update aplica un merge parcial; sobre un default compartido crea una copia
// privada del usuario y devuelve la copia.
// PUT /api/templates/:id
func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tmpl, err := h.uc.UpdateTemplate(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(tmpl)
}

// Delete elimina un template propio (los defaults son de solo lectura).
// DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.DeleteTemplate(c.Context(), userID, c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
