package entity

import "time"

// Contact representa una parte facturable ("bill to" / "send to") de un usuario.
type Contact struct {
	ID            string
	UserID        string
	Name          string
	Company       string
	Email         string
	Phone         string
	StreetAddress string
	AddressLine2  string
	City          string
	State         string
	PostalCode    string
	Country       string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
