package dto

import "github.com/shopspring/decimal"

// SubItemRequest anotación descriptiva anidada bajo una línea.
type SubItemRequest struct {
	ID          string `json:"id,omitempty"` // vacío al crear
	Description string `json:"description"`
}

// InvoiceItemRequest línea de factura del body. Order define la posición de
// presentación; si todos van en cero se usa el orden del arreglo.
type InvoiceItemRequest struct {
	ID                 string           `json:"id,omitempty"`
	Description        string           `json:"description"`
	Quantity           decimal.Decimal  `json:"quantity"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	Order              int              `json:"order"`
	SubItems           []SubItemRequest `json:"subitems,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices (y para el preview PDF,
// que valúa el mismo borrador sin persistirlo).
type CreateInvoiceRequest struct {
	Number             string               `json:"invoice_number"`
	Date               string               `json:"invoice_date"` // YYYY-MM-DD
	BillToID           string               `json:"bill_to_id"`
	SendToID           string               `json:"send_to_id"`
	DiscountPercentage decimal.Decimal      `json:"discount_percentage"`
	TaxRate            decimal.Decimal      `json:"tax_rate"`
	Notes              string               `json:"notes,omitempty"`
	TemplateID         string               `json:"template_id"`
	Items              []InvoiceItemRequest `json:"items"`
}

// SubItemResponse sub-ítem en respuestas.
type SubItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// InvoiceItemResponse línea con su total calculado.
type InvoiceItemResponse struct {
	ID                 string            `json:"id"`
	Description        string            `json:"description"`
	Quantity           decimal.Decimal   `json:"quantity"`
	UnitPrice          decimal.Decimal   `json:"unit_price"`
	DiscountPercentage decimal.Decimal   `json:"discount_percentage"`
	Order              int               `json:"order"`
	LineTotal          decimal.Decimal   `json:"line_total"`
	SubItems           []SubItemResponse `json:"subitems"`
}

// InvoiceResponse factura completa con valuación para GET /api/invoices/:id.
// Todos los montos van cuantizados a 2 decimales.
type InvoiceResponse struct {
	ID                 string                `json:"id"`
	Number             string                `json:"invoice_number"`
	Date               string                `json:"invoice_date"`
	BillToID           string                `json:"bill_to_id"`
	BillToName         string                `json:"bill_to_name,omitempty"`
	SendToID           string                `json:"send_to_id"`
	SendToName         string                `json:"send_to_name,omitempty"`
	DiscountPercentage decimal.Decimal       `json:"discount_percentage"`
	TaxRate            decimal.Decimal       `json:"tax_rate"`
	Notes              string                `json:"notes,omitempty"`
	TemplateID         string                `json:"template_id"`
	Items              []InvoiceItemResponse `json:"items"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	DiscountAmount     decimal.Decimal       `json:"discount_amount"`
	DiscountedSubtotal decimal.Decimal       `json:"discounted_subtotal"`
	Tax                decimal.Decimal       `json:"tax"`
	Total              decimal.Decimal       `json:"total"`
}

// InvoiceListQuery filtros, orden y paginación para GET /api/invoices.
type InvoiceListQuery struct {
	PageRequest
	Number     string `query:"invoice_number"`
	BillToName string `query:"bill_to_name"`
	SendToName string `query:"send_to_name"`
	DateFrom   string `query:"date_from"` // YYYY-MM-DD
	DateTo     string `query:"date_to"`
	TotalMin   string `query:"total_min"`
	TotalMax   string `query:"total_max"`
	SortBy     string `query:"sort_by"`
	SortOrder  string `query:"sort_order"` // asc | desc
}

// GroupedInvoicesQuery parámetros para GET /api/invoices/grouped.
type GroupedInvoicesQuery struct {
	GroupBy  string `query:"group_by"` // separado por comas: month,year,bill_to,send_to
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
}

// InvoiceGroupResponse una cubeta del resumen agrupado.
type InvoiceGroupResponse struct {
	Keys  []string        `json:"keys"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}
