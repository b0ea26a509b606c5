package entity

import "github.com/shopspring/decimal"

// LineItem representa una línea facturable de una factura.
// SortOrder define el orden de presentación, independiente del orden de
// inserción en la base de datos.
type LineItem struct {
	ID                 string
	InvoiceID          string
	Description        string
	Quantity           decimal.Decimal // >= 0
	UnitPrice          decimal.Decimal // >= 0, moneda a 2 decimales
	DiscountPercentage decimal.Decimal // 0–100, por línea
	SortOrder          int
	SubItems           []SubItem
}

// SubItem es una anotación descriptiva anidada bajo una línea.
// Nunca aporta cantidad, precio ni totales: es solo texto.
type SubItem struct {
	ID          string
	LineItemID  string
	Description string
	SortOrder   int
}
