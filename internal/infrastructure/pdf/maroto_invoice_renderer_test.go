package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func renderTemplate() *entity.Template {
	return &entity.Template{
		ID: "tpl-1", Name: "Default", IsDefault: true,
		Colors: entity.TemplateColors{
			Primary: "#000000", Secondary: "#555555", Accent: "#888888",
			Text: "#000000", Background: "#FFFFFF",
		},
		Fonts: entity.TemplateFonts{Main: "Helvetica", Accent: "Helvetica-Bold"},
		FontSizes: entity.TemplateFontSizes{
			Title: 20, InvoiceNumber: 14, SectionHeader: 8, TableHeader: 10, NormalText: 9,
		},
		Layout: entity.TemplateLayout{
			PageSize: entity.PageSizeA4,
			MarginTop: 0.3, MarginRight: 0.5, MarginBottom: 0.5, MarginLeft: 0.5,
		},
	}
}

func renderInvoice() (*entity.Invoice, *entity.Contact, *entity.Contact) {
	inv := &entity.Invoice{
		ID:     "inv-1",
		Number: "#001",
		Date:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Items: []entity.LineItem{
			{Description: "Consultoría", Quantity: dec("2"), UnitPrice: dec("100.00")},
			{Description: "Soporte", Quantity: dec("1"), UnitPrice: dec("50.00"),
				DiscountPercentage: dec("10"),
				SubItems:           []entity.SubItem{{Description: "Incluye guardias"}}},
		},
		DiscountPercentage: dec("5"),
		TaxRate:            dec("8"),
		Notes:              "Pago a 30 días.",
		Subtotal:           dec("245.00"),
		DiscountAmount:     dec("12.25"),
		DiscountedSubtotal: dec("232.75"),
		Tax:                dec("18.62"),
		Total:              dec("251.37"),
	}
	billTo := &entity.Contact{
		Name: "Acme Corp", StreetAddress: "Calle 10 #5-51",
		City: "Bogotá", State: "DC", PostalCode: "110111",
	}
	sendTo := &entity.Contact{Name: "Acme Bodega"}
	return inv, billTo, sendTo
}

func TestGenerateInvoicePDF_DocumentoValido(t *testing.T) {
	inv, billTo, sendTo := renderInvoice()

	data, err := NewMarotoInvoiceRenderer().GenerateInvoicePDF(context.Background(), inv, billTo, sendTo, renderTemplate())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]), "la salida debe ser un PDF bien formado")
}

func TestGenerateInvoicePDF_SinNotasNiDescuento(t *testing.T) {
	inv, billTo, sendTo := renderInvoice()
	inv.Notes = ""
	inv.DiscountPercentage = decimal.Zero
	inv.DiscountAmount = decimal.Zero
	inv.DiscountedSubtotal = inv.Subtotal

	data, err := NewMarotoInvoiceRenderer().GenerateInvoicePDF(context.Background(), inv, billTo, sendTo, renderTemplate())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestGenerateInvoicePDF_LetterConTimes(t *testing.T) {
	inv, billTo, sendTo := renderInvoice()
	tmpl := renderTemplate()
	tmpl.Layout.PageSize = entity.PageSizeLetter
	tmpl.Fonts = entity.TemplateFonts{Main: "Times-Roman", Accent: "Times-Bold"}

	data, err := NewMarotoInvoiceRenderer().GenerateInvoicePDF(context.Background(), inv, billTo, sendTo, tmpl)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

// Las filas de descuento del bloque de totales solo existen cuando el
// descuento global es mayor a cero.
func TestTotalsRows_FilasDeDescuentoCondicionales(t *testing.T) {
	tmpl := renderTemplate()
	pal, err := parsePalette(tmpl.Colors)
	require.NoError(t, err)

	conDescuento, _, _ := renderInvoice()
	// espaciador + Subtotal + Discount + Discounted Subtotal + Tax + Total
	assert.Len(t, totalsRows(conDescuento, tmpl, pal), 6)

	sinDescuento, _, _ := renderInvoice()
	sinDescuento.DiscountPercentage = decimal.Zero
	sinDescuento.DiscountAmount = decimal.Zero
	sinDescuento.DiscountedSubtotal = sinDescuento.Subtotal
	// espaciador + Subtotal + Tax + Total
	assert.Len(t, totalsRows(sinDescuento, tmpl, pal), 4)
}

// Un template con color roto no produce un PDF a medias: falla completo.
func TestGenerateInvoicePDF_ColorInvalido(t *testing.T) {
	inv, billTo, sendTo := renderInvoice()
	tmpl := renderTemplate()
	tmpl.Colors.Accent = "#GGGGGG"

	_, err := NewMarotoInvoiceRenderer().GenerateInvoicePDF(context.Background(), inv, billTo, sendTo, tmpl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accent")
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#1A2B3C")
	require.NoError(t, err)
	assert.Equal(t, 26, c.Red)
	assert.Equal(t, 43, c.Green)
	assert.Equal(t, 60, c.Blue)

	for _, bad := range []string{"", "1A2B3C", "#1A2B3", "#1A2B3C4", "#GGGGGG"} {
		_, err := parseHexColor(bad)
		assert.Error(t, err, "hex %q debe rechazarse", bad)
	}
}

func TestFontFamily_Mapeo(t *testing.T) {
	assert.Equal(t, timesFamily, fontFamily("Times-Roman"))
	assert.Equal(t, timesFamily, fontFamily("times-bold"))
	assert.Equal(t, fontfamily.Courier, fontFamily("Courier"))
	assert.Equal(t, fontfamily.Helvetica, fontFamily("Helvetica-Bold"))
	assert.Equal(t, fontfamily.Helvetica, fontFamily("Comic Sans"))
}
