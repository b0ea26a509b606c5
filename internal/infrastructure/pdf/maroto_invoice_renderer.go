// Package pdf implementa el render de facturas con Maroto v2. Todo el estilo
// visual (página, márgenes, paleta, fuentes, tamaños) sale del template
// resuelto; este paquete no trae estilos propios.
//
// Layout del documento:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  Bill To / Send To (izq)     │  INVOICE + #número (der)     │
//	│                              │  Date / Balance Due          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Item | Unit Price | Quantity | Total                │
//	│         • sub-ítems indentados bajo su línea                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / [Discount / Discounted Subtotal]       │
//	│           Tax / Total                                       │
//	│  NOTES (opcional)                                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/tu-usuario/invoice-pro/internal/application/billing"
	domainbilling "github.com/tu-usuario/invoice-pro/internal/domain/billing"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/money"
)

const inchToMM = 25.4

// gofpdf acepta la familia "times" aunque fontfamily no la exponga como
// constante.
const timesFamily = "times"

var _ appbilling.InvoicePDFGenerator = (*MarotoInvoiceRenderer)(nil)

// MarotoInvoiceRenderer implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoInvoiceRenderer struct{}

// NewMarotoInvoiceRenderer construye el renderizador.
func NewMarotoInvoiceRenderer() *MarotoInvoiceRenderer { return &MarotoInvoiceRenderer{} }

// palette colores del template ya parseados a props.Color.
type palette struct {
	primary   *props.Color
	secondary *props.Color
	accent    *props.Color
	text      *props.Color
	white     *props.Color
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoInvoiceRenderer) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	billTo, sendTo *entity.Contact,
	template *entity.Template,
) ([]byte, error) {
	pal, err := parsePalette(template.Colors)
	if err != nil {
		return nil, err
	}
	size := pagesize.A4
	if strings.EqualFold(template.Layout.PageSize, entity.PageSizeLetter) {
		size = pagesize.Letter
	}

	cfg := config.NewBuilder().
		WithPageSize(size).
		WithTopMargin(template.Layout.MarginTop * inchToMM).
		WithRightMargin(template.Layout.MarginRight * inchToMM).
		WithBottomMargin(template.Layout.MarginBottom * inchToMM).
		WithLeftMargin(template.Layout.MarginLeft * inchToMM).
		WithDefaultFont(&props.Font{
			Family: fontFamily(template.Fonts.Main),
			Size:   float64(template.FontSizes.NormalText),
			Color:  pal.text,
		}).
		WithTitle("Invoice "+invoice.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, billTo, sendTo, template, pal))
	m.AddRows(row.New(6))

	m.AddRows(itemsHeaderRow(template, pal))
	for _, r := range itemRows(invoice.Items, template, pal) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: pal.primary, Thickness: 0.5}))

	m.AddRows(totalsRows(invoice, template, pal)...)

	if invoice.Notes != "" {
		m.AddRows(notesRows(invoice.Notes, template, pal)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: direcciones Bill To / Send To a la izquierda; título INVOICE,
// número, fecha y Balance Due resaltado a la derecha.
func headerRow(invoice *entity.Invoice, billTo, sendTo *entity.Contact, t *entity.Template, pal *palette) core.Row {
	accentFont := fontFamily(t.Fonts.Accent)
	sectionHeader := func(label string, top float64) core.Component {
		return text.New(label, props.Text{
			Family: accentFont, Style: fontstyle.Bold,
			Size: float64(t.FontSizes.SectionHeader), Color: pal.secondary, Top: top,
		})
	}
	address := func(c *entity.Contact, top float64) []core.Component {
		cityLine := strings.TrimSpace(c.City + " " + c.State + " " + c.PostalCode)
		comps := []core.Component{
			text.New(c.Name, props.Text{Size: float64(t.FontSizes.NormalText), Color: pal.text, Top: top}),
		}
		if c.StreetAddress != "" {
			comps = append(comps, text.New(c.StreetAddress, props.Text{
				Size: float64(t.FontSizes.NormalText), Color: pal.text, Top: top + 4,
			}))
		}
		if cityLine != "" {
			comps = append(comps, text.New(cityLine, props.Text{
				Size: float64(t.FontSizes.NormalText), Color: pal.text, Top: top + 8,
			}))
		}
		return comps
	}

	left := col.New(7)
	left.Add(sectionHeader("Bill To:", 8))
	left.Add(address(billTo, 12)...)
	left.Add(sectionHeader("Send To:", 26))
	left.Add(address(sendTo, 30)...)

	right := col.New(5).Add(
		text.New("INVOICE", props.Text{
			Family: accentFont, Style: fontstyle.Bold,
			Size: float64(t.FontSizes.Title), Color: pal.primary,
			Align: align.Right, Top: 0,
		}),
		text.New("#"+invoice.Number, props.Text{
			Family: accentFont, Style: fontstyle.Bold,
			Size: float64(t.FontSizes.InvoiceNumber), Color: pal.primary,
			Align: align.Right, Top: 10,
		}),
		text.New("Date: "+invoice.Date.Format("January 02, 2006"), props.Text{
			Size: float64(t.FontSizes.NormalText), Color: pal.text,
			Align: align.Right, Top: 22,
		}),
		text.New("Balance Due: "+money.FormatUSD(invoice.Total), props.Text{
			Family: accentFont, Style: fontstyle.Bold,
			Size: float64(t.FontSizes.InvoiceNumber), Color: pal.text,
			Align: align.Right, Top: 30,
		}),
	)

	return row.New(44).Add(left, right)
}

// itemsHeaderRow: cabecera de la tabla con fondo accent y texto blanco.
func itemsHeaderRow(t *entity.Template, pal *palette) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Family: fontFamily(t.Fonts.Accent), Style: fontstyle.Bold,
			Size: float64(t.FontSizes.TableHeader), Align: a,
			Color: pal.white, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: pal.accent}).Add(
		h("Item", 7, align.Left),
		h("Unit Price", 2, align.Right),
		h("Quantity", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

// itemRows: una fila por línea, con "(N% Discount)" en la descripción cuando
// aplica, seguida de sus sub-ítems indentados con las columnas numéricas vacías.
func itemRows(items []entity.LineItem, t *entity.Template, pal *palette) []core.Row {
	normal := float64(t.FontSizes.NormalText)
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		description := item.Description
		if item.DiscountPercentage.IsPositive() {
			description += fmt.Sprintf(" (%s Discount)", money.FormatPercent(item.DiscountPercentage))
		}
		lineTotal := domainbilling.LineTotal(item.Quantity, item.UnitPrice, item.DiscountPercentage)
		result = append(result, row.New(6).Add(
			col.New(7).Add(text.New(description, props.Text{
				Size: normal, Color: pal.primary, Top: 1, Left: 1,
			})),
			col.New(2).Add(text.New(money.FormatUSD(item.UnitPrice), props.Text{
				Size: normal, Color: pal.text, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(1).Add(text.New(item.Quantity.String(), props.Text{
				Size: normal, Color: pal.text, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New(money.FormatUSD(lineTotal), props.Text{
				Size: normal, Color: pal.text, Align: align.Right, Top: 1, Right: 1,
			})),
		))
		for _, sub := range item.SubItems {
			result = append(result, row.New(5).Add(
				col.New(7).Add(text.New("• "+sub.Description, props.Text{
					Size: normal - 2, Color: pal.secondary, Top: 1, Left: 6,
				})),
				col.New(5),
			))
		}
	}
	return result
}

// totalsRows: bloque de totales a la derecha. Las filas de descuento solo
// aparecen cuando el descuento global es mayor a cero.
func totalsRows(invoice *entity.Invoice, t *entity.Template, pal *palette) []core.Row {
	normal := float64(t.FontSizes.NormalText)
	accentFont := fontFamily(t.Fonts.Accent)
	totalRow := func(label, value string, emphasis bool) core.Row {
		textProps := props.Text{Size: normal, Color: pal.text, Align: align.Right, Top: 1, Right: 1}
		if emphasis {
			textProps.Family = accentFont
			textProps.Style = fontstyle.Bold
			textProps.Color = pal.primary
		}
		labelProps := textProps
		labelProps.Right = 2
		return row.New(5.5).Add(
			col.New(7),
			col.New(3).Add(text.New(label, labelProps)),
			col.New(2).Add(text.New(value, textProps)),
		)
	}

	rows := []core.Row{
		row.New(2),
		totalRow("Subtotal:", money.FormatUSD(invoice.Subtotal), false),
	}
	if invoice.DiscountPercentage.IsPositive() {
		rows = append(rows,
			totalRow(
				fmt.Sprintf("Discount (%s):", money.FormatPercent(invoice.DiscountPercentage)),
				"-"+money.FormatUSD(invoice.DiscountAmount), false),
			totalRow("Discounted Subtotal:", money.FormatUSD(invoice.DiscountedSubtotal), false),
		)
	}
	rows = append(rows,
		totalRow(
			fmt.Sprintf("Tax (%s):", money.FormatPercent(invoice.TaxRate)),
			money.FormatUSD(invoice.Tax), false),
		totalRow("Total:", money.FormatUSD(invoice.Total), true),
	)
	return rows
}

// notesRows: sección Notes al pie.
func notesRows(notes string, t *entity.Template, pal *palette) []core.Row {
	small := float64(t.FontSizes.SmallText)
	if small == 0 {
		small = 7
	}
	return []core.Row{
		row.New(8).Add(col.New(12).Add(text.New("Notes", props.Text{
			Family: fontFamily(t.Fonts.Accent), Style: fontstyle.Bold,
			Size: float64(t.FontSizes.SectionHeader), Color: pal.secondary, Top: 4,
		}))),
		row.New(6).Add(col.New(12).Add(text.New(notes, props.Text{
			Size: small, Color: pal.secondary, Top: 1,
		}))),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// parsePalette convierte los colores "#RRGGBB" del template a props.Color.
func parsePalette(c entity.TemplateColors) (*palette, error) {
	pal := &palette{white: &props.Color{Red: 255, Green: 255, Blue: 255}}
	for _, entry := range []struct {
		name string
		hex  string
		dst  **props.Color
	}{
		{"primary", c.Primary, &pal.primary},
		{"secondary", c.Secondary, &pal.secondary},
		{"accent", c.Accent, &pal.accent},
		{"text", c.Text, &pal.text},
	} {
		color, err := parseHexColor(entry.hex)
		if err != nil {
			return nil, fmt.Errorf("pdf: color %s: %w", entry.name, err)
		}
		*entry.dst = color
	}
	return pal, nil
}

// parseHexColor parsea "#RRGGBB".
func parseHexColor(s string) (*props.Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return nil, fmt.Errorf("formato hex inválido: %q", s)
	}
	var rgb [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[1+i*2:3+i*2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("formato hex inválido: %q", s)
		}
		rgb[i] = int(v)
	}
	return &props.Color{Red: rgb[0], Green: rgb[1], Blue: rgb[2]}, nil
}

// fontFamily mapea los nombres tipográficos del template a las familias
// base de Maroto. Times-Roman/Times-Bold caen en times; el resto en helvetica.
func fontFamily(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "times"):
		return timesFamily
	case strings.HasPrefix(lower, "courier"):
		return fontfamily.Courier
	default:
		return fontfamily.Helvetica
	}
}
