package dto

// ContactRequest body para crear/actualizar un contacto.
type ContactRequest struct {
	Name          string `json:"name"`
	Company       string `json:"company,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	StreetAddress string `json:"street_address,omitempty"`
	AddressLine2  string `json:"address_line2,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Country       string `json:"country,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// ContactResponse contacto en respuestas.
type ContactResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Company       string `json:"company,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	StreetAddress string `json:"street_address,omitempty"`
	AddressLine2  string `json:"address_line2,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Country       string `json:"country,omitempty"`
	Notes         string `json:"notes,omitempty"`
}
