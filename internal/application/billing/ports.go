package billing

import (
	"context"

	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con el
// repositorio de facturas atado a la tx (cabecera + reemplazo de líneas
// atómicos).
type BillingTxRunner interface {
	RunInvoice(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoicePDFGenerator puerto del renderizador de documentos. La factura llega
// con líneas y totales ya calculados; todo el estilo visual sale del template
// resuelto. El generador no sustituye templates por su cuenta: si el template
// no sirve para maquetar, retorna error y el render completo falla.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		billTo, sendTo *entity.Contact,
		template *entity.Template,
	) ([]byte, error)
}
