package repository

import "github.com/tu-usuario/invoice-pro/internal/domain/entity"

// ContactRepository define el puerto de persistencia para Contact.
type ContactRepository interface {
	Create(contact *entity.Contact) error
	GetByID(id string) (*entity.Contact, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Contact, error)
	Update(contact *entity.Contact) error
	Delete(id string) error
}
