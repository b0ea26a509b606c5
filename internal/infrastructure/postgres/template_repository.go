package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

var _ repository.TemplateRepository = (*TemplateRepo)(nil)

// TemplateRepo implementación del puerto TemplateRepository sobre PostgreSQL.
// Las secciones de estilo (colors, fonts, font_sizes, layout) se guardan como
// JSONB.
type TemplateRepo struct {
	q Querier
}

// NewTemplateRepository construye el adaptador de persistencia para templates.
func NewTemplateRepository(q Querier) *TemplateRepo {
	return &TemplateRepo{q: q}
}

// Create persiste un template. user_id NULL marca default compartido.
func (r *TemplateRepo) Create(template *entity.Template) error {
	colors, fonts, fontSizes, layout, err := marshalSections(template)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO templates (id, name, is_default, user_id, colors, fonts, font_sizes, layout, custom_css, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(context.Background(), query,
		template.ID, template.Name, template.IsDefault, nullIfEmpty(template.UserID),
		colors, fonts, fontSizes, layout, nullIfEmpty(template.CustomCSS),
		template.CreatedAt, template.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un template con ese nombre", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// GetByID devuelve el template solo si es visible: default compartido o del
// usuario. userID vacío restringe a defaults.
func (r *TemplateRepo) GetByID(id, userID string) (*entity.Template, error) {
	if userID == "" {
		return r.scanOne(templateSelect+` WHERE id = $1 AND is_default`, id)
	}
	return r.scanOne(templateSelect+` WHERE id = $1 AND (is_default OR user_id = $2)`, id, userID)
}

// GetByName busca un template por nombre exacto (para el seed de defaults).
func (r *TemplateRepo) GetByName(name string) (*entity.Template, error) {
	return r.scanOne(templateSelect+` WHERE name = $1 LIMIT 1`, name)
}

// ListVisible lista defaults compartidos más los templates del usuario,
// defaults primero.
func (r *TemplateRepo) ListVisible(userID string, limit, offset int) ([]*entity.Template, error) {
	query := templateSelect + `
		WHERE is_default OR user_id = $1
		ORDER BY is_default DESC, name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	var list []*entity.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update actualiza un template existente.
func (r *TemplateRepo) Update(template *entity.Template) error {
	colors, fonts, fontSizes, layout, err := marshalSections(template)
	if err != nil {
		return err
	}
	query := `
		UPDATE templates
		SET name = $2, colors = $3, fonts = $4, font_sizes = $5, layout = $6,
		    custom_css = $7, updated_at = $8
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		template.ID, template.Name, colors, fonts, fontSizes, layout,
		nullIfEmpty(template.CustomCSS), template.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya existe un template con ese nombre", domain.ErrDuplicate)
		}
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete elimina un template por ID.
func (r *TemplateRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

const templateSelect = `
	SELECT id, name, is_default, COALESCE(user_id, ''),
	       colors, fonts, font_sizes, layout, COALESCE(custom_css, ''),
	       created_at, updated_at
	FROM templates`

func (r *TemplateRepo) scanOne(query string, args ...any) (*entity.Template, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get template: %w", err)
		}
		return nil, nil
	}
	return scanTemplate(rows)
}

func scanTemplate(rows pgx.Rows) (*entity.Template, error) {
	var t entity.Template
	var colors, fonts, fontSizes, layout []byte
	if err := rows.Scan(
		&t.ID, &t.Name, &t.IsDefault, &t.UserID,
		&colors, &fonts, &fontSizes, &layout, &t.CustomCSS,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan template: %w", err)
	}
	if err := json.Unmarshal(colors, &t.Colors); err != nil {
		return nil, fmt.Errorf("decode colors: %w", err)
	}
	if err := json.Unmarshal(fonts, &t.Fonts); err != nil {
		return nil, fmt.Errorf("decode fonts: %w", err)
	}
	if err := json.Unmarshal(fontSizes, &t.FontSizes); err != nil {
		return nil, fmt.Errorf("decode font_sizes: %w", err)
	}
	if err := json.Unmarshal(layout, &t.Layout); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &t, nil
}

func marshalSections(t *entity.Template) (colors, fonts, fontSizes, layout []byte, err error) {
	if colors, err = json.Marshal(t.Colors); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode colors: %w", err)
	}
	if fonts, err = json.Marshal(t.Fonts); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode fonts: %w", err)
	}
	if fontSizes, err = json.Marshal(t.FontSizes); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode font_sizes: %w", err)
	}
	if layout, err = json.Marshal(t.Layout); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encode layout: %w", err)
	}
	return colors, fonts, fontSizes, layout, nil
}
