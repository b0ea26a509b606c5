package billing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appbilling "github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

// fakePDFGenerator captura lo que recibe el puerto de render para poder
// afirmar sobre la factura y el template resueltos, sin maroto de por medio.
type fakePDFGenerator struct {
	lastInvoice  *entity.Invoice
	lastBillTo   *entity.Contact
	lastSendTo   *entity.Contact
	lastTemplate *entity.Template
	calls        int
}

func (f *fakePDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	billTo, sendTo *entity.Contact,
	template *entity.Template,
) ([]byte, error) {
	f.lastInvoice = invoice
	f.lastBillTo = billTo
	f.lastSendTo = sendTo
	f.lastTemplate = template
	f.calls++
	return []byte("%PDF-1.7 fake"), nil
}

func newPDFFixture(t *testing.T) (*billingFixture, *appbilling.PDFUseCase, *fakePDFGenerator) {
	t.Helper()
	fx := newBillingFixture(t)
	gen := &fakePDFGenerator{}
	pdfUC := appbilling.NewPDFUseCase(fx.invoiceRepo, fx.contactRepo, fx.tmplRepo, gen, fx.uc)
	return fx, pdfUC, gen
}

// ──────────────────────────────────────────────────────────────────────────────
// Descarga de factura persistida
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadInvoicePDF_NombreDeArchivo(t *testing.T) {
	fx, pdfUC, _ := newPDFFixture(t)
	created, err := fx.uc.CreateInvoice(context.Background(), testUserID, fx.validRequest())
	require.NoError(t, err)

	data, filename, err := pdfUC.DownloadInvoicePDF(context.Background(), testUserID, created.ID, "")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "invoice_001.pdf", filename, "el '#' del número se quita del nombre de archivo")
}

func TestDownloadInvoicePDF_NumeroConSeparadores(t *testing.T) {
	fx, pdfUC, _ := newPDFFixture(t)
	req := fx.validRequest()
	req.Number = "INV 2025/03"
	created, err := fx.uc.CreateInvoice(context.Background(), testUserID, req)
	require.NoError(t, err)

	_, filename, err := pdfUC.DownloadInvoicePDF(context.Background(), testUserID, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "invoice_INV_2025-03.pdf", filename, "espacios y barras no pueden llegar al header")
}

func TestDownloadInvoicePDF_RecibeLineasYTotales(t *testing.T) {
	fx, pdfUC, gen := newPDFFixture(t)
	created, err := fx.uc.CreateInvoice(context.Background(), testUserID, fx.validRequest())
	require.NoError(t, err)

	_, _, err = pdfUC.DownloadInvoicePDF(context.Background(), testUserID, created.ID, "")
	require.NoError(t, err)

	require.NotNil(t, gen.lastInvoice)
	assert.Len(t, gen.lastInvoice.Items, 2, "el render recibe la factura con sus líneas cargadas")
	assert.True(t, created.Total.Equal(gen.lastInvoice.Total))
	assert.Equal(t, "Acme Corp", gen.lastBillTo.Name)
	assert.Equal(t, "Acme Bodega", gen.lastSendTo.Name)
	assert.Equal(t, fx.templateID, gen.lastTemplate.ID)
}

func TestDownloadInvoicePDF_TemplateOverride(t *testing.T) {
	fx, pdfUC, gen := newPDFFixture(t)
	created, err := fx.uc.CreateInvoice(context.Background(), testUserID, fx.validRequest())
	require.NoError(t, err)

	// Template propio del usuario, distinto al guardado en la factura.
	propio := &entity.Template{
		ID: uuid.New().String(), Name: "Mío", UserID: testUserID,
		Colors: entity.TemplateColors{
			Primary: "#111111", Secondary: "#222222", Accent: "#333333",
			Text: "#000000", Background: "#FFFFFF",
		},
		Fonts: entity.TemplateFonts{Main: "Helvetica", Accent: "Helvetica-Bold"},
		FontSizes: entity.TemplateFontSizes{
			Title: 20, InvoiceNumber: 14, SectionHeader: 8, TableHeader: 10, NormalText: 9,
		},
		Layout: entity.TemplateLayout{PageSize: entity.PageSizeA4, MarginTop: 0.3, MarginRight: 0.5, MarginBottom: 0.5, MarginLeft: 0.5},
	}
	fx.tmplRepo.byID[propio.ID] = propio

	_, _, err = pdfUC.DownloadInvoicePDF(context.Background(), testUserID, created.ID, propio.ID)
	require.NoError(t, err)
	assert.Equal(t, propio.ID, gen.lastTemplate.ID, "el override por query param manda sobre el template guardado")

	// El override con un template inexistente es 404, no fallback silencioso.
	_, _, err = pdfUC.DownloadInvoicePDF(context.Background(), testUserID, created.ID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownloadInvoicePDF_FacturaAjena(t *testing.T) {
	fx, pdfUC, gen := newPDFFixture(t)
	created, err := fx.uc.CreateInvoice(context.Background(), testUserID, fx.validRequest())
	require.NoError(t, err)

	_, _, err = pdfUC.DownloadInvoicePDF(context.Background(), otherUserID, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, gen.calls, "no se renderiza nada para un usuario sin acceso")
}

// ──────────────────────────────────────────────────────────────────────────────
// Preview de borrador
// ──────────────────────────────────────────────────────────────────────────────

// El preview y el documento final comparten valuación: los totales que recibe
// el render del borrador son los mismos que persiste CreateInvoice.
func TestPreviewInvoicePDF_MismaValuacionQueCreate(t *testing.T) {
	fx, pdfUC, gen := newPDFFixture(t)

	_, _, err := pdfUC.PreviewInvoicePDF(context.Background(), testUserID, fx.validRequest())
	require.NoError(t, err)
	previewTotals := *gen.lastInvoice

	created, err := fx.uc.CreateInvoice(context.Background(), testUserID, fx.validRequest())
	require.NoError(t, err)

	assert.True(t, created.Subtotal.Equal(previewTotals.Subtotal))
	assert.True(t, created.DiscountAmount.Equal(previewTotals.DiscountAmount))
	assert.True(t, created.Tax.Equal(previewTotals.Tax))
	assert.True(t, created.Total.Equal(previewTotals.Total))
}

// El render del preview recibe las líneas ya ordenadas por su Order explícito,
// no en el orden del arreglo del request.
func TestPreviewInvoicePDF_OrdenDePresentacion(t *testing.T) {
	fx, pdfUC, gen := newPDFFixture(t)
	req := fx.validRequest()
	req.Items = []dto.InvoiceItemRequest{
		{Description: "Segundo", Quantity: dec("1"), UnitPrice: dec("10.00"), Order: 2},
		{Description: "Primero", Quantity: dec("1"), UnitPrice: dec("20.00"), Order: 1},
	}

	_, _, err := pdfUC.PreviewInvoicePDF(context.Background(), testUserID, req)
	require.NoError(t, err)

	require.Len(t, gen.lastInvoice.Items, 2)
	assert.Equal(t, "Primero", gen.lastInvoice.Items[0].Description)
	assert.Equal(t, "Segundo", gen.lastInvoice.Items[1].Description)
}

func TestPreviewInvoicePDF_NoPersiste(t *testing.T) {
	fx, pdfUC, _ := newPDFFixture(t)

	_, _, err := pdfUC.PreviewInvoicePDF(context.Background(), testUserID, fx.validRequest())
	require.NoError(t, err)

	stored, err := fx.invoiceRepo.GetByNumber(testUserID, "#001")
	require.NoError(t, err)
	assert.Nil(t, stored, "el preview no escribe nada")
}

// El preview no exige unicidad: previsualizar un número ya usado es válido.
func TestPreviewInvoicePDF_NumeroRepetidoPermitido(t *testing.T) {
	fx, pdfUC, _ := newPDFFixture(t)
	_, err := fx.uc.CreateInvoice(context.Background(), testUserID, fx.validRequest())
	require.NoError(t, err)

	_, _, err = pdfUC.PreviewInvoicePDF(context.Background(), testUserID, fx.validRequest())
	assert.NoError(t, err)
}

// El preview valida igual que Create: el placeholder del UI también se rechaza.
func TestPreviewInvoicePDF_PlaceholderRechazado(t *testing.T) {
	fx, pdfUC, gen := newPDFFixture(t)
	req := fx.validRequest()
	req.Number = "string"

	_, _, err := pdfUC.PreviewInvoicePDF(context.Background(), testUserID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, gen.calls)
}
