package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa la cabecera de una factura con sus líneas.
// Los totales (Subtotal..Total) son derivados: se recalculan con el agregador
// de billing en cada escritura y se guardan solo como caché consultable; la
// fuente de verdad siempre son las líneas.
type Invoice struct {
	ID                 string
	UserID             string
	Number             string // número legible y único (ej. "#001")
	Date               time.Time
	BillToID           string // contacto facturado
	SendToID           string // contacto de envío
	DiscountPercentage decimal.Decimal // 0–100, a nivel factura
	TaxRate            decimal.Decimal // 0–100
	Notes              string
	TemplateID         string
	Items              []LineItem

	// Totales derivados (caché, cuantizados a 2 decimales).
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	DiscountedSubtotal decimal.Decimal
	Tax                decimal.Decimal
	Total              decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
