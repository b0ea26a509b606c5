package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

const contactColumns = `id, user_id, name, company, email, phone,
	street_address, address_line2, city, state, postal_code, country, notes,
	created_at, updated_at`

// ContactRepo implementación del puerto ContactRepository sobre PostgreSQL.
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador de persistencia para contactos.
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

// Create persiste un contacto.
func (r *ContactRepo) Create(contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		contact.ID, contact.UserID, contact.Name,
		nullIfEmpty(contact.Company), nullIfEmpty(contact.Email), nullIfEmpty(contact.Phone),
		nullIfEmpty(contact.StreetAddress), nullIfEmpty(contact.AddressLine2),
		nullIfEmpty(contact.City), nullIfEmpty(contact.State),
		nullIfEmpty(contact.PostalCode), nullIfEmpty(contact.Country), nullIfEmpty(contact.Notes),
		contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID obtiene un contacto por ID.
func (r *ContactRepo) GetByID(id string) (*entity.Contact, error) {
	query := `
		SELECT id, user_id, name,
		       COALESCE(company, ''), COALESCE(email, ''), COALESCE(phone, ''),
		       COALESCE(street_address, ''), COALESCE(address_line2, ''),
		       COALESCE(city, ''), COALESCE(state, ''),
		       COALESCE(postal_code, ''), COALESCE(country, ''), COALESCE(notes, ''),
		       created_at, updated_at
		FROM contacts WHERE id = $1`
	var c entity.Contact
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.UserID, &c.Name,
		&c.Company, &c.Email, &c.Phone,
		&c.StreetAddress, &c.AddressLine2, &c.City, &c.State,
		&c.PostalCode, &c.Country, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

// ListByUser lista los contactos del usuario ordenados por nombre.
func (r *ContactRepo) ListByUser(userID string, limit, offset int) ([]*entity.Contact, error) {
	query := `
		SELECT id, user_id, name,
		       COALESCE(company, ''), COALESCE(email, ''), COALESCE(phone, ''),
		       COALESCE(street_address, ''), COALESCE(address_line2, ''),
		       COALESCE(city, ''), COALESCE(state, ''),
		       COALESCE(postal_code, ''), COALESCE(country, ''), COALESCE(notes, ''),
		       created_at, updated_at
		FROM contacts WHERE user_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contact
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name,
			&c.Company, &c.Email, &c.Phone,
			&c.StreetAddress, &c.AddressLine2, &c.City, &c.State,
			&c.PostalCode, &c.Country, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza un contacto.
func (r *ContactRepo) Update(contact *entity.Contact) error {
	query := `
		UPDATE contacts
		SET name = $2, company = $3, email = $4, phone = $5,
		    street_address = $6, address_line2 = $7, city = $8, state = $9,
		    postal_code = $10, country = $11, notes = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		contact.ID, contact.Name,
		nullIfEmpty(contact.Company), nullIfEmpty(contact.Email), nullIfEmpty(contact.Phone),
		nullIfEmpty(contact.StreetAddress), nullIfEmpty(contact.AddressLine2),
		nullIfEmpty(contact.City), nullIfEmpty(contact.State),
		nullIfEmpty(contact.PostalCode), nullIfEmpty(contact.Country), nullIfEmpty(contact.Notes),
		contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// Delete elimina un contacto por ID.
func (r *ContactRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
