package repository

import "github.com/tu-usuario/invoice-pro/internal/domain/entity"

// TemplateRepository define el puerto de persistencia para Template.
// La visibilidad es: defaults compartidos (user_id NULL) + templates del usuario.
type TemplateRepository interface {
	Create(template *entity.Template) error
	// GetByID devuelve el template solo si es default compartido o pertenece a
	// userID. userID vacío restringe a defaults compartidos.
	GetByID(id, userID string) (*entity.Template, error)
	GetByName(name string) (*entity.Template, error)
	ListVisible(userID string, limit, offset int) ([]*entity.Template, error)
	Update(template *entity.Template) error
	Delete(id string) error
}
