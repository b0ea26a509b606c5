// Package money concentra el redondeo y el formato monetario de toda la
// aplicación. Regla única: dos decimales con redondeo half-up, aplicada en
// cada punto de cuantización (nunca redondeo ad hoc en los llamadores).
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 cuantiza a exactamente 2 decimales con redondeo half-up.
// Decimal.Round redondea half away from zero; como los montos monetarios de la
// aplicación nunca son negativos, equivale a half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent calcula value * p / 100 en aritmética decimal exacta, sin redondeo
// intermedio. El llamador decide cuándo cuantizar con Round2.
func Percent(value, p decimal.Decimal) decimal.Decimal {
	return value.Mul(p).Div(decimal.NewFromInt(100))
}

// FormatUSD formatea un monto como moneda con prefijo y 2 decimales fijos.
// Ej: 123.4 -> "$123.40"
func FormatUSD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatPercent formatea un porcentaje como "N%", sin decimales salvo que el
// valor los tenga. Ej: 8 -> "8%", 12.5 -> "12.5%"
func FormatPercent(p decimal.Decimal) string {
	s := p.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s + "%"
}
