package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
)

// ContactHandler maneja las peticiones HTTP de contactos (protegido).
type ContactHandler struct {
	uc *billing.ContactUseCase
}

// NewContactHandler construye el handler.
func NewContactHandler(uc *billing.ContactUseCase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

// Create crea un contacto.
// POST /api/contacts
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	contact, err := h.uc.CreateContact(c.Context(), userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// List lista los contactos del usuario.
// GET /api/contacts
func (h *ContactHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	contacts, err := h.uc.ListContacts(c.Context(), userID, page)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(contacts)
}

// GetByID obtiene un contacto.
// GET /api/contacts/:id
func (h *ContactHandler) GetByID(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	contact, err := h.uc.GetContact(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(contact)
}

// Update actualiza un contacto.
// PUT /api/contacts/:id
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	contact, err := h.uc.UpdateContact(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(contact)
}

// Delete elimina un contacto.
// DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.DeleteContact(c.Context(), userID, c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
