package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/billing"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Vector de referencia del agregador:
//
//	Líneas: 2 × $100.00 (sin descuento) y 1 × $50.00 (10% descuento)
//	Descuento de factura: 5% — Impuesto: 8%
//
//	subtotal            = 200.00 + 45.00        = 245.00
//	discount_amount     = 245.00 × 5%           = 12.25
//	discounted_subtotal = 245.00 − 12.25        = 232.75
//	tax                 = 232.75 × 8%           = 18.62
//	total               = 232.75 + 18.62        = 251.37
//
// Si alguien altera el orden de operaciones o un punto de redondeo, este test
// falla de inmediato.
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func referenceItems() []entity.LineItem {
	return []entity.LineItem{
		{Description: "Consultoría", Quantity: d("2"), UnitPrice: d("100.00"), DiscountPercentage: decimal.Zero},
		{Description: "Soporte", Quantity: d("1"), UnitPrice: d("50.00"), DiscountPercentage: d("10")},
	}
}

func TestComputeTotals_VectorDeReferencia(t *testing.T) {
	totals := billing.ComputeTotals(referenceItems(), d("5"), d("8"))

	assert.True(t, d("245.00").Equal(totals.Subtotal), "subtotal debe ser 245.00, fue %s", totals.Subtotal)
	assert.True(t, d("12.25").Equal(totals.DiscountAmount), "discount_amount debe ser 12.25, fue %s", totals.DiscountAmount)
	assert.True(t, d("232.75").Equal(totals.DiscountedSubtotal), "discounted_subtotal debe ser 232.75, fue %s", totals.DiscountedSubtotal)
	assert.True(t, d("18.62").Equal(totals.Tax), "tax debe ser 18.62, fue %s", totals.Tax)
	assert.True(t, d("251.37").Equal(totals.Total), "total debe ser 251.37, fue %s", totals.Total)
}

// El agregador es puro: mismas entradas, mismos números, siempre.
func TestComputeTotals_Determinista(t *testing.T) {
	a := billing.ComputeTotals(referenceItems(), d("5"), d("8"))
	b := billing.ComputeTotals(referenceItems(), d("5"), d("8"))
	assert.Equal(t, a, b, "dos corridas con el mismo input deben producir la misma valuación")
}

// SortOrder es presentación: invertir las líneas no cambia la valuación.
func TestComputeTotals_IndependienteDelOrden(t *testing.T) {
	items := referenceItems()
	reversed := []entity.LineItem{items[1], items[0]}

	a := billing.ComputeTotals(items, d("5"), d("8"))
	b := billing.ComputeTotals(reversed, d("5"), d("8"))
	assert.True(t, a.Total.Equal(b.Total), "el total no puede depender del orden de las líneas")
	assert.True(t, a.Subtotal.Equal(b.Subtotal))
}

// Sin líneas: todos los campos en 0.00, sin error.
func TestComputeTotals_SinLineas(t *testing.T) {
	totals := billing.ComputeTotals(nil, d("5"), d("8"))
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.DiscountedSubtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

// Descuento e impuesto en cero: el pipeline completo corre igual y
// total == subtotal.
func TestComputeTotals_TasasCero(t *testing.T) {
	totals := billing.ComputeTotals(referenceItems(), decimal.Zero, decimal.Zero)
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Subtotal.Equal(totals.Total), "sin tasas, total == subtotal")
}

// ──────────────────────────────────────────────────────────────────────────────
// LineTotal
// ──────────────────────────────────────────────────────────────────────────────

func TestLineTotal_SinDescuento(t *testing.T) {
	got := billing.LineTotal(d("3"), d("19.99"), decimal.Zero)
	assert.True(t, d("59.97").Equal(got), "3 × 19.99 = 59.97, fue %s", got)
}

func TestLineTotal_ConDescuento(t *testing.T) {
	got := billing.LineTotal(d("1"), d("50.00"), d("10"))
	assert.True(t, d("45.00").Equal(got), "50.00 con 10%% = 45.00, fue %s", got)
}

// Descuento 100% anula la línea sea cual sea cantidad y precio.
func TestLineTotal_DescuentoTotal(t *testing.T) {
	got := billing.LineTotal(d("7"), d("123.45"), d("100"))
	assert.True(t, got.IsZero(), "descuento 100%% debe producir 0, fue %s", got)
}

// Cantidades fraccionarias se valúan sin pasar por float.
func TestLineTotal_CantidadFraccionaria(t *testing.T) {
	got := billing.LineTotal(d("2.5"), d("10.10"), decimal.Zero)
	assert.True(t, d("25.25").Equal(got), "2.5 × 10.10 = 25.25, fue %s", got)
}

// El redondeo del total de línea es half-up a 2 decimales.
func TestLineTotal_RedondeoHalfUp(t *testing.T) {
	// 3 × 0.335 = 1.005 → 1.01
	got := billing.LineTotal(d("3"), d("0.335"), decimal.Zero)
	assert.True(t, d("1.01").Equal(got), "1.005 debe redondear a 1.01, fue %s", got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestValidatePercentage_FueraDeRango(t *testing.T) {
	err := billing.ValidatePercentage("descuento", d("100.01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "porcentaje > 100 es entrada inválida, no se recorta")

	err = billing.ValidatePercentage("descuento", d("-0.01"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidatePercentage_Bordes(t *testing.T) {
	assert.NoError(t, billing.ValidatePercentage("x", decimal.Zero))
	assert.NoError(t, billing.ValidatePercentage("x", d("100")))
}

func TestValidateLineItem_Rechazos(t *testing.T) {
	base := entity.LineItem{Description: "ok", Quantity: d("1"), UnitPrice: d("1")}

	sinDescripcion := base
	sinDescripcion.Description = ""
	assert.ErrorIs(t, billing.ValidateLineItem(sinDescripcion), domain.ErrInvalidInput)

	cantidadNegativa := base
	cantidadNegativa.Quantity = d("-1")
	assert.ErrorIs(t, billing.ValidateLineItem(cantidadNegativa), domain.ErrInvalidInput)

	precioNegativo := base
	precioNegativo.UnitPrice = d("-0.01")
	assert.ErrorIs(t, billing.ValidateLineItem(precioNegativo), domain.ErrInvalidInput)

	descuentoExcesivo := base
	descuentoExcesivo.DiscountPercentage = d("101")
	assert.ErrorIs(t, billing.ValidateLineItem(descuentoExcesivo), domain.ErrInvalidInput)

	subItemVacio := base
	subItemVacio.SubItems = []entity.SubItem{{Description: ""}}
	assert.ErrorIs(t, billing.ValidateLineItem(subItemVacio), domain.ErrInvalidInput)
}

func TestValidateLineItem_DescripcionLarga(t *testing.T) {
	long := make([]rune, billing.MaxDescriptionLen+1)
	for i := range long {
		long[i] = 'a'
	}
	item := entity.LineItem{Description: string(long), Quantity: d("1"), UnitPrice: d("1")}
	assert.ErrorIs(t, billing.ValidateLineItem(item), domain.ErrInvalidInput,
		"descripción de más de %d caracteres debe rechazarse", billing.MaxDescriptionLen)
}
