// Package billing contiene la valuación monetaria de facturas (servicio de
// dominio): el total de cada línea y la agregación de totales de la factura.
//
// Todo es puro y determinista: mismas líneas + mismo descuento + misma tasa de
// impuesto producen siempre los mismos números, sin importar si vienen de un
// borrador en memoria o de registros hidratados desde la base de datos. Esa
// garantía permite cachear los totales y compararlos después contra un
// recálculo (auditoría, regeneración de un PDF histórico).
package billing

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/money"
)

// MaxDescriptionLen longitud máxima de la descripción de líneas y sub-ítems.
const MaxDescriptionLen = 200

var hundred = decimal.NewFromInt(100)

// Totals es la valuación completa de una factura, cuantizada a 2 decimales.
type Totals struct {
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	DiscountedSubtotal decimal.Decimal
	Tax                decimal.Decimal
	Total              decimal.Decimal
}

// LineTotal calcula el total monetario de una línea:
//
//	round2( cantidad * precioUnitario * (1 - descuento/100) )
//
// Descuento 100 => 0 para cualquier cantidad/precio. Los sub-ítems no
// participan. Asume input ya validado (ver ValidateLineItem); no recorta
// valores fuera de rango.
func LineTotal(quantity, unitPrice, discountPercentage decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discountPercentage.Div(hundred))
	return money.Round2(quantity.Mul(unitPrice).Mul(factor))
}

// ComputeTotals agrega las líneas en el orden fijo de operaciones:
//
//	1. subtotal            = round2( Σ line_total )
//	2. discount_amount     = round2( subtotal * descuento/100 )
//	3. discounted_subtotal = subtotal - discount_amount
//	4. tax                 = round2( discounted_subtotal * tasa/100 )
//	5. total               = discounted_subtotal + tax
//
// El orden se respeta también cuando descuento o impuesto son cero. Una
// factura sin líneas produce 0.00 en todos los campos. La suma del subtotal es
// independiente del orden de las líneas (SortOrder afecta solo presentación).
func ComputeTotals(items []entity.LineItem, discountPercentage, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item.Quantity, item.UnitPrice, item.DiscountPercentage))
	}
	subtotal = money.Round2(subtotal)

	discountAmount := money.Round2(money.Percent(subtotal, discountPercentage))
	discountedSubtotal := subtotal.Sub(discountAmount)
	tax := money.Round2(money.Percent(discountedSubtotal, taxRate))
	total := discountedSubtotal.Add(tax)

	return Totals{
		Subtotal:           subtotal,
		DiscountAmount:     discountAmount,
		DiscountedSubtotal: discountedSubtotal,
		Tax:                tax,
		Total:              total,
	}
}

// ValidatePercentage verifica que un porcentaje esté en [0, 100].
func ValidatePercentage(field string, p decimal.Decimal) error {
	if p.LessThan(decimal.Zero) || p.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s debe estar entre 0 y 100", domain.ErrInvalidInput, field)
	}
	return nil
}

// ValidateLineItem verifica una línea en la frontera de entrada: descripción
// presente y acotada, cantidad y precio no negativos, descuento en [0,100].
func ValidateLineItem(item entity.LineItem) error {
	if item.Description == "" {
		return fmt.Errorf("%w: descripción de línea requerida", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(item.Description) > MaxDescriptionLen {
		return fmt.Errorf("%w: descripción de línea supera %d caracteres", domain.ErrInvalidInput, MaxDescriptionLen)
	}
	if item.Quantity.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if item.UnitPrice.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: precio unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	if err := ValidatePercentage("descuento de línea", item.DiscountPercentage); err != nil {
		return err
	}
	for _, sub := range item.SubItems {
		if sub.Description == "" {
			return fmt.Errorf("%w: descripción de sub-ítem requerida", domain.ErrInvalidInput)
		}
		if utf8.RuneCountInString(sub.Description) > MaxDescriptionLen {
			return fmt.Errorf("%w: descripción de sub-ítem supera %d caracteres", domain.ErrInvalidInput, MaxDescriptionLen)
		}
	}
	return nil
}

// ValidateInvoiceRates valida descuento e impuesto a nivel factura.
func ValidateInvoiceRates(discountPercentage, taxRate decimal.Decimal) error {
	if err := ValidatePercentage("descuento de factura", discountPercentage); err != nil {
		return err
	}
	return ValidatePercentage("tasa de impuesto", taxRate)
}
