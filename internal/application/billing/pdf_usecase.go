package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

// PDFUseCase genera el PDF de una factura persistida o de un borrador
// (preview). Ambos caminos pasan por el mismo agregador de valuación y el
// mismo renderizador, así el preview y el documento final siempre coinciden.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	contactRepo  repository.ContactRepository
	templateRepo repository.TemplateRepository
	generator    InvoicePDFGenerator
	invoiceUC    *InvoiceUseCase
}

// NewPDFUseCase construye el caso de uso de documentos.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	contactRepo repository.ContactRepository,
	templateRepo repository.TemplateRepository,
	generator InvoicePDFGenerator,
	invoiceUC *InvoiceUseCase,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		contactRepo:  contactRepo,
		templateRepo: templateRepo,
		generator:    generator,
		invoiceUC:    invoiceUC,
	}
}

// DownloadInvoicePDF renderiza una factura persistida. templateID permite
// sobreescribir el template guardado en la factura para esta descarga; vacío
// usa el de la factura. Devuelve los bytes del PDF y el nombre de archivo.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, userID, invoiceID, templateID string) ([]byte, string, error) {
	inv, err := uc.invoiceUC.ownedInvoice(userID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("obtener líneas: %w", err)
	}
	inv.Items = items

	billTo, sendTo, err := uc.invoiceUC.resolveContacts(userID, inv.BillToID, inv.SendToID)
	if err != nil {
		return nil, "", err
	}
	effectiveTemplateID := inv.TemplateID
	if templateID != "" {
		effectiveTemplateID = templateID
	}
	tmpl, err := uc.invoiceUC.resolveTemplate(effectiveTemplateID, userID)
	if err != nil {
		return nil, "", err
	}
	if err := tmpl.Validate(); err != nil {
		return nil, "", err
	}

	data, err := uc.generator.GenerateInvoicePDF(ctx, inv, billTo, sendTo, tmpl)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	return data, pdfFilename(inv.Number), nil
}

// PreviewInvoicePDF renderiza un borrador sin persistirlo. El borrador pasa
// por la misma validación y la misma valuación que CreateInvoice; la única
// diferencia es que no se escribe nada ni se exige unicidad del número.
func (uc *PDFUseCase) PreviewInvoicePDF(ctx context.Context, userID string, in dto.CreateInvoiceRequest) ([]byte, string, error) {
	inv, err := uc.invoiceUC.buildInvoice(userID, in)
	if err != nil {
		return nil, "", err
	}
	billTo, sendTo, err := uc.invoiceUC.resolveContacts(userID, inv.BillToID, inv.SendToID)
	if err != nil {
		return nil, "", err
	}
	tmpl, err := uc.invoiceUC.resolveTemplate(inv.TemplateID, userID)
	if err != nil {
		return nil, "", err
	}
	if err := tmpl.Validate(); err != nil {
		return nil, "", err
	}

	data, err := uc.generator.GenerateInvoicePDF(ctx, inv, billTo, sendTo, tmpl)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	return data, pdfFilename(inv.Number), nil
}

// pdfFilename arma "invoice_<número>.pdf" quitando caracteres problemáticos
// para encabezados y sistemas de archivos.
func pdfFilename(number string) string {
	clean := strings.NewReplacer("#", "", "/", "-", "\\", "-", " ", "_").Replace(number)
	return "invoice_" + clean + ".pdf"
}
