package billing

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
)

// ContactUseCase CRUD de contactos del usuario (partes "bill to" / "send to").
type ContactUseCase struct {
	contactRepo repository.ContactRepository
}

func NewContactUseCase(contactRepo repository.ContactRepository) *ContactUseCase {
	return &ContactUseCase{contactRepo: contactRepo}
}

// CreateContact crea un contacto del usuario.
func (uc *ContactUseCase) CreateContact(ctx context.Context, userID string, in dto.ContactRequest) (*dto.ContactResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de contacto requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	contact := &entity.Contact{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          name,
		Company:       strings.TrimSpace(in.Company),
		Email:         strings.TrimSpace(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		StreetAddress: in.StreetAddress,
		AddressLine2:  in.AddressLine2,
		City:          in.City,
		State:         in.State,
		PostalCode:    in.PostalCode,
		Country:       in.Country,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.contactRepo.Create(contact); err != nil {
		return nil, fmt.Errorf("crear contacto: %w", err)
	}
	return toContactResponse(contact), nil
}

// GetContact devuelve un contacto del usuario.
func (uc *ContactUseCase) GetContact(ctx context.Context, userID, contactID string) (*dto.ContactResponse, error) {
	contact, err := uc.ownedContact(userID, contactID)
	if err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

// ListContacts lista los contactos del usuario con paginación.
func (uc *ContactUseCase) ListContacts(ctx context.Context, userID string, page dto.PageRequest) ([]dto.ContactResponse, error) {
	page.DefaultPage()
	contacts, err := uc.contactRepo.ListByUser(userID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar contactos: %w", err)
	}
	out := make([]dto.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, *toContactResponse(c))
	}
	return out, nil
}

// UpdateContact reemplaza los datos del contacto.
func (uc *ContactUseCase) UpdateContact(ctx context.Context, userID, contactID string, in dto.ContactRequest) (*dto.ContactResponse, error) {
	contact, err := uc.ownedContact(userID, contactID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de contacto requerido", domain.ErrInvalidInput)
	}
	contact.Name = name
	contact.Company = strings.TrimSpace(in.Company)
	contact.Email = strings.TrimSpace(in.Email)
	contact.Phone = strings.TrimSpace(in.Phone)
	contact.StreetAddress = in.StreetAddress
	contact.AddressLine2 = in.AddressLine2
	contact.City = in.City
	contact.State = in.State
	contact.PostalCode = in.PostalCode
	contact.Country = in.Country
	contact.Notes = in.Notes
	contact.UpdatedAt = time.Now()

	if err := uc.contactRepo.Update(contact); err != nil {
		return nil, fmt.Errorf("actualizar contacto: %w", err)
	}
	return toContactResponse(contact), nil
}

// DeleteContact elimina el contacto del usuario.
func (uc *ContactUseCase) DeleteContact(ctx context.Context, userID, contactID string) error {
	if _, err := uc.ownedContact(userID, contactID); err != nil {
		return err
	}
	return uc.contactRepo.Delete(contactID)
}

func (uc *ContactUseCase) ownedContact(userID, contactID string) (*entity.Contact, error) {
	contact, err := uc.contactRepo.GetByID(contactID)
	if err != nil {
		return nil, fmt.Errorf("obtener contacto: %w", err)
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}
	if contact.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return contact, nil
}

func toContactResponse(c *entity.Contact) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:            c.ID,
		Name:          c.Name,
		Company:       c.Company,
		Email:         c.Email,
		Phone:         c.Phone,
		StreetAddress: c.StreetAddress,
		AddressLine2:  c.AddressLine2,
		City:          c.City,
		State:         c.State,
		PostalCode:    c.PostalCode,
		Country:       c.Country,
		Notes:         c.Notes,
	}
}
