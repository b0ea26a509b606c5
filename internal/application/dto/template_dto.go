package dto

import "github.com/tu-usuario/invoice-pro/internal/domain/entity"

// CreateTemplateRequest body para POST /api/templates. El template queda
// siempre como privado del usuario (nunca se crean defaults por API).
type CreateTemplateRequest struct {
	Name      string                   `json:"name"`
	Colors    entity.TemplateColors    `json:"colors"`
	Fonts     entity.TemplateFonts     `json:"fonts"`
	FontSizes entity.TemplateFontSizes `json:"font_sizes"`
	Layout    entity.TemplateLayout    `json:"layout"`
	CustomCSS string                   `json:"custom_css,omitempty"`
}

// UpdateTemplateRequest body para PUT /api/templates/:id. Todas las secciones
// son opcionales: las que van en nil se conservan del template existente
// (merge parcial, no reenvío completo).
type UpdateTemplateRequest struct {
	Name      *string                   `json:"name,omitempty"`
	Colors    *entity.TemplateColors    `json:"colors,omitempty"`
	Fonts     *entity.TemplateFonts     `json:"fonts,omitempty"`
	FontSizes *entity.TemplateFontSizes `json:"font_sizes,omitempty"`
	Layout    *entity.TemplateLayout    `json:"layout,omitempty"`
	CustomCSS *string                   `json:"custom_css,omitempty"`
}

// TemplateResponse template en respuestas.
type TemplateResponse struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	IsDefault bool                     `json:"is_default"`
	UserID    string                   `json:"user_id,omitempty"`
	Colors    entity.TemplateColors    `json:"colors"`
	Fonts     entity.TemplateFonts     `json:"fonts"`
	FontSizes entity.TemplateFontSizes `json:"font_sizes"`
	Layout    entity.TemplateLayout    `json:"layout"`
	CustomCSS string                   `json:"custom_css,omitempty"`
}
