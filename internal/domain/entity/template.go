package entity

import (
	"fmt"
	"time"

	"github.com/tu-usuario/invoice-pro/internal/domain"
)

// Tamaños de página soportados por el renderizador.
const (
	PageSizeA4     = "A4"
	PageSizeLetter = "LETTER"
)

// TemplateColors paleta del documento. Cada valor es "#RRGGBB".
type TemplateColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Text       string `json:"text"`
	Background string `json:"background"`
}

// TemplateFonts familias tipográficas del documento.
type TemplateFonts struct {
	Main   string `json:"main"`
	Accent string `json:"accent"`
}

// TemplateFontSizes tamaños en puntos. SmallText es opcional (0 = usar fallback).
type TemplateFontSizes struct {
	Title         int `json:"title"`
	InvoiceNumber int `json:"invoice_number"`
	SectionHeader int `json:"section_header"`
	TableHeader   int `json:"table_header"`
	NormalText    int `json:"normal_text"`
	SmallText     int `json:"small_text,omitempty"`
}

// TemplateLayout tamaño de página y márgenes en pulgadas.
type TemplateLayout struct {
	PageSize     string  `json:"page_size"` // "A4" | "LETTER"
	MarginTop    float64 `json:"margin_top"`
	MarginRight  float64 `json:"margin_right"`
	MarginBottom float64 `json:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left"`
}

// Template es un estilo visual con nombre para renderizar facturas.
//
// Propiedad compartida vs. privada: un template con IsDefault=true es
// compartido entre todos los usuarios y es de solo lectura (UserID vacío).
// Cualquier "edición" de un default debe pasar por CopyForUser, que construye
// una copia privada; el objeto compartido jamás se muta en sitio.
type Template struct {
	ID        string
	Name      string
	IsDefault bool
	UserID    string // vacío para defaults compartidos
	Colors    TemplateColors
	Fonts     TemplateFonts
	FontSizes TemplateFontSizes
	Layout    TemplateLayout
	CustomCSS string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Shared indica si el template es el preset compartido de solo lectura.
func (t *Template) Shared() bool {
	return t.IsDefault
}

// CopyForUser construye un template nuevo, privado y editable, derivado de t.
// Es el único camino para "personalizar" un default compartido: siempre
// devuelve un objeto propio del usuario, nunca modifica el origen.
// El ID queda vacío; lo asigna la capa de aplicación al persistir.
func (t *Template) CopyForUser(userID string, now time.Time) *Template {
	return &Template{
		Name:      "Copy of " + t.Name,
		IsDefault: false,
		UserID:    userID,
		Colors:    t.Colors,
		Fonts:     t.Fonts,
		FontSizes: t.FontSizes,
		Layout:    t.Layout,
		CustomCSS: t.CustomCSS,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate verifica que el template esté completo y sea renderizable:
// colores hex de 6 dígitos, tamaños de fuente positivos, tamaño de página
// soportado y márgenes no negativos.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: nombre de template requerido", domain.ErrInvalidInput)
	}
	colors := []struct {
		field string
		value string
	}{
		{"primary", t.Colors.Primary},
		{"secondary", t.Colors.Secondary},
		{"accent", t.Colors.Accent},
		{"text", t.Colors.Text},
		{"background", t.Colors.Background},
	}
	for _, c := range colors {
		if !isHexColor(c.value) {
			return fmt.Errorf("%w: color %s inválido: %q", domain.ErrInvalidInput, c.field, c.value)
		}
	}
	if t.Fonts.Main == "" || t.Fonts.Accent == "" {
		return fmt.Errorf("%w: fuentes main y accent requeridas", domain.ErrInvalidInput)
	}
	sizes := []struct {
		field string
		value int
	}{
		{"title", t.FontSizes.Title},
		{"invoice_number", t.FontSizes.InvoiceNumber},
		{"section_header", t.FontSizes.SectionHeader},
		{"table_header", t.FontSizes.TableHeader},
		{"normal_text", t.FontSizes.NormalText},
	}
	for _, s := range sizes {
		if s.value <= 0 {
			return fmt.Errorf("%w: tamaño de fuente %s debe ser positivo", domain.ErrInvalidInput, s.field)
		}
	}
	if t.FontSizes.SmallText < 0 {
		return fmt.Errorf("%w: tamaño de fuente small_text debe ser positivo", domain.ErrInvalidInput)
	}
	if t.Layout.PageSize != PageSizeA4 && t.Layout.PageSize != PageSizeLetter {
		return fmt.Errorf("%w: tamaño de página no soportado: %q", domain.ErrInvalidInput, t.Layout.PageSize)
	}
	margins := []float64{t.Layout.MarginTop, t.Layout.MarginRight, t.Layout.MarginBottom, t.Layout.MarginLeft}
	for _, m := range margins {
		if m < 0 {
			return fmt.Errorf("%w: los márgenes no pueden ser negativos", domain.ErrInvalidInput)
		}
	}
	return nil
}

// isHexColor acepta "#RRGGBB" (6 dígitos hex, case-insensitive).
func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
