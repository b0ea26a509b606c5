package template

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
	"github.com/tu-usuario/invoice-pro/pkg/logger"
)

// UseCase casos de uso de templates: CRUD privado del usuario más la regla de
// copy-on-customize sobre los defaults compartidos. Los defaults nunca se
// mutan: editarlos produce una copia privada y el original queda intacto.
type UseCase struct {
	templateRepo repository.TemplateRepository
	log          *logger.Logger
}

func NewUseCase(templateRepo repository.TemplateRepository, log *logger.Logger) *UseCase {
	return &UseCase{templateRepo: templateRepo, log: log}
}

// CreateTemplate crea un template privado del usuario.
func (uc *UseCase) CreateTemplate(ctx context.Context, userID string, in dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	now := time.Now()
	tmpl := &entity.Template{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		IsDefault: false,
		UserID:    userID,
		Colors:    in.Colors,
		Fonts:     in.Fonts,
		FontSizes: in.FontSizes,
		Layout:    in.Layout,
		CustomCSS: in.CustomCSS,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	if err := uc.templateRepo.Create(tmpl); err != nil {
		return nil, fmt.Errorf("crear template: %w", err)
	}
	return toTemplateResponse(tmpl), nil
}

// GetTemplate devuelve un template visible para el usuario (default o propio).
func (uc *UseCase) GetTemplate(ctx context.Context, userID, templateID string) (*dto.TemplateResponse, error) {
	tmpl, err := uc.visibleTemplate(userID, templateID)
	if err != nil {
		return nil, err
	}
	return toTemplateResponse(tmpl), nil
}

// ListTemplates lista los templates visibles: defaults compartidos + propios.
func (uc *UseCase) ListTemplates(ctx context.Context, userID string, page dto.PageRequest) ([]dto.TemplateResponse, error) {
	page.DefaultPage()
	templates, err := uc.templateRepo.ListVisible(userID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar templates: %w", err)
	}
	out := make([]dto.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, *toTemplateResponse(t))
	}
	return out, nil
}

// UpdateTemplate aplica un merge parcial sobre el template. Si el objetivo es
// un default compartido, el default no se toca: se crea una copia privada del
// usuario ("Copy of <nombre>") con los cambios aplicados y se devuelve esa.
func (uc *UseCase) UpdateTemplate(ctx context.Context, userID, templateID string, in dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	tmpl, err := uc.visibleTemplate(userID, templateID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	target := tmpl
	if tmpl.Shared() {
		target = tmpl.CopyForUser(userID, now)
		target.ID = uuid.New().String()
	}

	mergeTemplate(target, in)
	target.UpdatedAt = now
	if err := target.Validate(); err != nil {
		return nil, err
	}

	if tmpl.Shared() {
		if err := uc.templateRepo.Create(target); err != nil {
			return nil, fmt.Errorf("copiar template: %w", err)
		}
		uc.log.Info().
			Str("template_id", tmpl.ID).
			Str("copy_id", target.ID).
			Str("user_id", userID).
			Msg("default template copiado para edición")
	} else {
		if err := uc.templateRepo.Update(target); err != nil {
			return nil, fmt.Errorf("actualizar template: %w", err)
		}
	}
	return toTemplateResponse(target), nil
}

// DeleteTemplate elimina un template propio. Los defaults compartidos no se
// pueden borrar por API.
func (uc *UseCase) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	tmpl, err := uc.visibleTemplate(userID, templateID)
	if err != nil {
		return err
	}
	if tmpl.Shared() {
		return fmt.Errorf("%w: los templates default no se pueden eliminar", domain.ErrForbidden)
	}
	return uc.templateRepo.Delete(templateID)
}

// SeedDefaults garantiza los tres presets compartidos (Default, Modern,
// Classic). Idempotente: respeta los ya existentes por nombre.
func (uc *UseCase) SeedDefaults(ctx context.Context) error {
	for _, preset := range defaultTemplates() {
		existing, err := uc.templateRepo.GetByName(preset.Name)
		if err != nil {
			return fmt.Errorf("buscar template %s: %w", preset.Name, err)
		}
		if existing != nil {
			continue
		}
		preset.ID = uuid.New().String()
		now := time.Now()
		preset.CreatedAt = now
		preset.UpdatedAt = now
		if err := uc.templateRepo.Create(&preset); err != nil {
			return fmt.Errorf("sembrar template %s: %w", preset.Name, err)
		}
		uc.log.Info().Str("name", preset.Name).Msg("template default creado")
	}
	return nil
}

func (uc *UseCase) visibleTemplate(userID, templateID string) (*entity.Template, error) {
	tmpl, err := uc.templateRepo.GetByID(templateID, userID)
	if err != nil {
		return nil, fmt.Errorf("obtener template: %w", err)
	}
	if tmpl == nil {
		return nil, domain.ErrNotFound
	}
	return tmpl, nil
}

// mergeTemplate aplica las secciones no nulas del request sobre el template.
// Cada sección se reemplaza completa; dentro de una sección no hay merge por
// campo.
func mergeTemplate(t *entity.Template, in dto.UpdateTemplateRequest) {
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Colors != nil {
		t.Colors = *in.Colors
	}
	if in.Fonts != nil {
		t.Fonts = *in.Fonts
	}
	if in.FontSizes != nil {
		t.FontSizes = *in.FontSizes
	}
	if in.Layout != nil {
		t.Layout = *in.Layout
	}
	if in.CustomCSS != nil {
		t.CustomCSS = *in.CustomCSS
	}
}

func toTemplateResponse(t *entity.Template) *dto.TemplateResponse {
	return &dto.TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		IsDefault: t.IsDefault,
		UserID:    t.UserID,
		Colors:    t.Colors,
		Fonts:     t.Fonts,
		FontSizes: t.FontSizes,
		Layout:    t.Layout,
		CustomCSS: t.CustomCSS,
	}
}

// defaultTemplates son los presets compartidos que se siembran al arrancar.
func defaultTemplates() []entity.Template {
	sizes := entity.TemplateFontSizes{
		Title:         20,
		InvoiceNumber: 14,
		SectionHeader: 8,
		TableHeader:   10,
		NormalText:    9,
	}
	return []entity.Template{
		{
			Name:      "Default",
			IsDefault: true,
			Colors: entity.TemplateColors{
				Primary:    "#000000",
				Secondary:  "#555555",
				Accent:     "#888888",
				Text:       "#000000",
				Background: "#FFFFFF",
			},
			Fonts: entity.TemplateFonts{Main: "Helvetica", Accent: "Helvetica-Bold"},
			FontSizes: sizes,
			Layout: entity.TemplateLayout{
				PageSize:     entity.PageSizeA4,
				MarginTop:    0.3,
				MarginRight:  0.5,
				MarginBottom: 0.5,
				MarginLeft:   0.5,
			},
		},
		{
			Name:      "Modern",
			IsDefault: true,
			Colors: entity.TemplateColors{
				Primary:    "#2C3E50",
				Secondary:  "#7F8C8D",
				Accent:     "#3498DB",
				Text:       "#000000",
				Background: "#FFFFFF",
			},
			Fonts: entity.TemplateFonts{Main: "Helvetica", Accent: "Helvetica-Bold"},
			FontSizes: sizes,
			Layout: entity.TemplateLayout{
				PageSize:     entity.PageSizeA4,
				MarginTop:    0.4,
				MarginRight:  0.6,
				MarginBottom: 0.4,
				MarginLeft:   0.6,
			},
		},
		{
			Name:      "Classic",
			IsDefault: true,
			Colors: entity.TemplateColors{
				Primary:    "#4A4A4A",
				Secondary:  "#A9A9A9",
				Accent:     "#8B0000",
				Text:       "#000000",
				Background: "#FFFFFF",
			},
			Fonts: entity.TemplateFonts{Main: "Times-Roman", Accent: "Times-Bold"},
			FontSizes: sizes,
			Layout: entity.TemplateLayout{
				PageSize:     entity.PageSizeLetter,
				MarginTop:    0.5,
				MarginRight:  0.5,
				MarginBottom: 0.5,
				MarginLeft:   0.5,
			},
		},
	}
}
