package template_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/application/template"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del repositorio de templates
// ──────────────────────────────────────────────────────────────────────────────

type fakeTemplateRepo struct {
	byID map[string]*entity.Template
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{byID: map[string]*entity.Template{}}
}

func (f *fakeTemplateRepo) Create(t *entity.Template) error {
	clone := *t
	f.byID[t.ID] = &clone
	return nil
}

func (f *fakeTemplateRepo) GetByID(id, userID string) (*entity.Template, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	if !t.IsDefault && t.UserID != userID {
		return nil, nil
	}
	if userID == "" && !t.IsDefault {
		return nil, nil
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTemplateRepo) GetByName(name string) (*entity.Template, error) {
	for _, t := range f.byID {
		if t.Name == name {
			clone := *t
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeTemplateRepo) ListVisible(userID string, limit, offset int) ([]*entity.Template, error) {
	var out []*entity.Template
	for _, t := range f.byID {
		if t.IsDefault || t.UserID == userID {
			clone := *t
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(t *entity.Template) error {
	clone := *t
	f.byID[t.ID] = &clone
	return nil
}

func (f *fakeTemplateRepo) Delete(id string) error {
	delete(f.byID, id)
	return nil
}

func seededUseCase(t *testing.T) (*template.UseCase, *fakeTemplateRepo) {
	t.Helper()
	repo := newFakeTemplateRepo()
	uc := template.NewUseCase(repo, logger.Nop())
	require.NoError(t, uc.SeedDefaults(context.Background()))
	return uc, repo
}

func defaultID(t *testing.T, repo *fakeTemplateRepo, name string) string {
	t.Helper()
	tmpl, err := repo.GetByName(name)
	require.NoError(t, err)
	require.NotNil(t, tmpl, "el preset %s debe existir tras el seed", name)
	return tmpl.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Seed de presets
// ──────────────────────────────────────────────────────────────────────────────

func TestSeedDefaults_CreaLosTresPresets(t *testing.T) {
	_, repo := seededUseCase(t)
	for _, name := range []string{"Default", "Modern", "Classic"} {
		tmpl, err := repo.GetByName(name)
		require.NoError(t, err)
		require.NotNil(t, tmpl, "preset %s faltante", name)
		assert.True(t, tmpl.IsDefault)
		assert.Empty(t, tmpl.UserID, "un preset compartido no tiene dueño")
		assert.NoError(t, tmpl.Validate(), "todo preset sembrado debe ser renderizable")
	}
}

func TestSeedDefaults_Idempotente(t *testing.T) {
	uc, repo := seededUseCase(t)
	before := len(repo.byID)
	require.NoError(t, uc.SeedDefaults(context.Background()))
	assert.Equal(t, before, len(repo.byID), "correr el seed dos veces no duplica presets")
}

// ──────────────────────────────────────────────────────────────────────────────
// Copy-on-customize
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateTemplate_DefaultProduceCopia(t *testing.T) {
	uc, repo := seededUseCase(t)
	id := defaultID(t, repo, "Modern")

	name := "Mi Modern"
	resp, err := uc.UpdateTemplate(context.Background(), "user-1", id, dto.UpdateTemplateRequest{Name: &name})
	require.NoError(t, err)

	assert.NotEqual(t, id, resp.ID, "editar un default debe devolver una copia, no el default")
	assert.False(t, resp.IsDefault)
	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "Mi Modern", resp.Name)

	// El default original queda intacto.
	original, err := repo.GetByName("Modern")
	require.NoError(t, err)
	require.NotNil(t, original, "el default compartido debe seguir existiendo sin cambios")
	assert.True(t, original.IsDefault)
}

func TestUpdateTemplate_DefaultSinNombreUsaCopyOf(t *testing.T) {
	uc, repo := seededUseCase(t)
	id := defaultID(t, repo, "Classic")

	colors := entity.TemplateColors{
		Primary: "#111111", Secondary: "#222222", Accent: "#333333",
		Text: "#000000", Background: "#FFFFFF",
	}
	resp, err := uc.UpdateTemplate(context.Background(), "user-1", id, dto.UpdateTemplateRequest{Colors: &colors})
	require.NoError(t, err)
	assert.Equal(t, "Copy of Classic", resp.Name)
	assert.Equal(t, "#111111", resp.Colors.Primary)
	// Secciones no enviadas se heredan del default.
	assert.Equal(t, "Times-Roman", resp.Fonts.Main)
}

func TestUpdateTemplate_PropioSeMutaEnSitio(t *testing.T) {
	uc, repo := seededUseCase(t)
	created, err := uc.CreateTemplate(context.Background(), "user-1", validCreateRequest("Propio"))
	require.NoError(t, err)

	name := "Renombrado"
	resp, err := uc.UpdateTemplate(context.Background(), "user-1", created.ID, dto.UpdateTemplateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID, "un template propio se actualiza en sitio, sin copia")
	assert.Equal(t, "Renombrado", resp.Name)
	assert.Len(t, ownedBy(repo, "user-1"), 1, "no deben aparecer copias extra")
}

// Merge parcial: las secciones en nil se conservan.
func TestUpdateTemplate_MergeParcial(t *testing.T) {
	uc, _ := seededUseCase(t)
	created, err := uc.CreateTemplate(context.Background(), "user-1", validCreateRequest("Base"))
	require.NoError(t, err)

	sizes := entity.TemplateFontSizes{Title: 28, InvoiceNumber: 16, SectionHeader: 9, TableHeader: 11, NormalText: 10}
	resp, err := uc.UpdateTemplate(context.Background(), "user-1", created.ID, dto.UpdateTemplateRequest{FontSizes: &sizes})
	require.NoError(t, err)

	assert.Equal(t, 28, resp.FontSizes.Title, "la sección enviada se reemplaza completa")
	assert.Equal(t, created.Colors, resp.Colors, "las secciones nil se conservan")
	assert.Equal(t, created.Layout, resp.Layout)
	assert.Equal(t, created.Name, resp.Name)
}

func TestUpdateTemplate_MergeInvalidoSeRechaza(t *testing.T) {
	uc, _ := seededUseCase(t)
	created, err := uc.CreateTemplate(context.Background(), "user-1", validCreateRequest("Base"))
	require.NoError(t, err)

	colors := entity.TemplateColors{Primary: "no-es-hex"}
	_, err = uc.UpdateTemplate(context.Background(), "user-1", created.ID, dto.UpdateTemplateRequest{Colors: &colors})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el template resultante del merge debe validarse completo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Visibilidad y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestGetTemplate_AjenoInvisible(t *testing.T) {
	uc, _ := seededUseCase(t)
	created, err := uc.CreateTemplate(context.Background(), "user-1", validCreateRequest("Privado"))
	require.NoError(t, err)

	_, err = uc.GetTemplate(context.Background(), "user-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "el template privado de otro usuario no debe ser visible")
}

func TestDeleteTemplate_DefaultProhibido(t *testing.T) {
	uc, repo := seededUseCase(t)
	id := defaultID(t, repo, "Default")

	err := uc.DeleteTemplate(context.Background(), "user-1", id)
	assert.ErrorIs(t, err, domain.ErrForbidden, "los defaults compartidos no se borran por API")

	tmpl, _ := repo.GetByName("Default")
	assert.NotNil(t, tmpl, "el default debe seguir existiendo")
}

func TestDeleteTemplate_PropioOK(t *testing.T) {
	uc, repo := seededUseCase(t)
	created, err := uc.CreateTemplate(context.Background(), "user-1", validCreateRequest("Temporal"))
	require.NoError(t, err)

	require.NoError(t, uc.DeleteTemplate(context.Background(), "user-1", created.ID))
	assert.Empty(t, ownedBy(repo, "user-1"))
}

func TestCreateTemplate_Invalido(t *testing.T) {
	uc, _ := seededUseCase(t)
	req := validCreateRequest("Malo")
	req.Layout.PageSize = "TABLOID"
	_, err := uc.CreateTemplate(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// helpers
// ──────────────────────────────────────────────────────────────────────────────

func validCreateRequest(name string) dto.CreateTemplateRequest {
	return dto.CreateTemplateRequest{
		Name: name,
		Colors: entity.TemplateColors{
			Primary: "#123456", Secondary: "#654321", Accent: "#ABCDEF",
			Text: "#000000", Background: "#FFFFFF",
		},
		Fonts: entity.TemplateFonts{Main: "Helvetica", Accent: "Helvetica-Bold"},
		FontSizes: entity.TemplateFontSizes{
			Title: 20, InvoiceNumber: 14, SectionHeader: 8, TableHeader: 10, NormalText: 9,
		},
		Layout: entity.TemplateLayout{
			PageSize: entity.PageSizeLetter,
			MarginTop: 0.5, MarginRight: 0.5, MarginBottom: 0.5, MarginLeft: 0.5,
		},
	}
}

func ownedBy(repo *fakeTemplateRepo, userID string) []*entity.Template {
	var out []*entity.Template
	for _, t := range repo.byID {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}
