package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

// Campos de ordenamiento aceptados por ListByUser.
const (
	SortByNumber     = "invoice_number"
	SortByDate       = "date"
	SortByTotal      = "total"
	SortByBillToName = "bill_to_name"
	SortBySendToName = "send_to_name"
)

// Dimensiones de agrupación aceptadas por GroupByUser.
const (
	GroupByMonth  = "month"
	GroupByYear   = "year"
	GroupByBillTo = "bill_to"
	GroupBySendTo = "send_to"
)

// InvoiceFilter filtros, ordenamiento y paginación para el listado de facturas.
// Los punteros nil significan "sin filtro".
type InvoiceFilter struct {
	Number     string // substring, case-insensitive
	BillToName string // substring sobre el nombre del contacto
	SendToName string
	DateFrom   *time.Time
	DateTo     *time.Time
	TotalMin   *decimal.Decimal
	TotalMax   *decimal.Decimal
	SortBy     string // uno de SortBy*; vacío = sin orden explícito
	SortOrder  string // "asc" | "desc"
	Limit      int
	Offset     int
}

// InvoiceGroupRow una cubeta del resumen agrupado: las claves en el orden
// pedido (mes, año o nombre de contacto), conteo y suma de totales.
type InvoiceGroupRow struct {
	Keys  []string
	Count int
	Total decimal.Decimal
}

// InvoiceSummary fila del listado: cabecera con totales cacheados más los
// nombres de los contactos (join en SQL, sin N+1).
type InvoiceSummary struct {
	Invoice    entity.Invoice
	BillToName string
	SendToName string
}

// InvoiceRepository define el puerto de persistencia para Invoice, sus líneas
// y sub-ítems. Las líneas se reemplazan en bloque junto con la cabecera.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	Update(invoice *entity.Invoice) error
	// ReplaceItems borra las líneas (y sub-ítems, en cascada) de la factura y
	// persiste las recibidas. Se usa dentro de la misma tx que Create/Update.
	ReplaceItems(invoiceID string, items []entity.LineItem) error
	GetByID(id string) (*entity.Invoice, error)
	// GetItemsByInvoiceID devuelve las líneas con sub-ítems, ordenadas por SortOrder.
	GetItemsByInvoiceID(invoiceID string) ([]entity.LineItem, error)
	GetByNumber(userID, number string) (*entity.Invoice, error)
	ListByUser(userID string, filter InvoiceFilter) ([]InvoiceSummary, error)
	GroupByUser(userID string, groupBy []string, dateFrom, dateTo *time.Time) ([]InvoiceGroupRow, error)
	Delete(id string) error
}
