package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	domainbilling "github.com/tu-usuario/invoice-pro/internal/domain/billing"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

// Límites de validación en la frontera de entrada.
const (
	maxInvoiceNumberLen = 50
	maxNotesLen         = 500

	// "string" es el placeholder literal de los ejemplos del UI; si llega como
	// número de factura es un submit de ejemplo sin editar y se rechaza.
	placeholderInvoiceNumber = "string"
)

// InvoiceUseCase casos de uso de facturación: crear, actualizar, consultar,
// listar, agrupar y eliminar facturas. La valuación monetaria la hace el
// agregador de dominio antes de persistir; los totales guardados son caché.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	contactRepo  repository.ContactRepository
	templateRepo repository.TemplateRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	contactRepo repository.ContactRepository,
	templateRepo repository.TemplateRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		contactRepo:  contactRepo,
		templateRepo: templateRepo,
	}
}

// CreateInvoice valida el borrador, resuelve contactos y template, calcula la
// valuación y persiste cabecera + líneas en una sola transacción.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.buildInvoice(userID, in)
	if err != nil {
		return nil, err
	}
	billTo, sendTo, err := uc.resolveContacts(userID, inv.BillToID, inv.SendToID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.resolveTemplate(inv.TemplateID, userID); err != nil {
		return nil, err
	}
	if existing, _ := uc.invoiceRepo.GetByNumber(userID, inv.Number); existing != nil {
		return nil, fmt.Errorf("%w: el número de factura ya existe", domain.ErrDuplicate)
	}

	inv.ID = uuid.New().String()
	assignItemIDs(inv)

	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		return invoiceRepo.ReplaceItems(inv.ID, inv.Items)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, billTo.Name, sendTo.Name), nil
}

// UpdateInvoice reemplaza la factura completa (cabecera y líneas) y recalcula
// la valuación. Las líneas no enviadas desaparecen; no hay mutación parcial.
func (uc *InvoiceUseCase) UpdateInvoice(ctx context.Context, userID, invoiceID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	existing, err := uc.ownedInvoice(userID, invoiceID)
	if err != nil {
		return nil, err
	}

	inv, err := uc.buildInvoice(userID, in)
	if err != nil {
		return nil, err
	}
	billTo, sendTo, err := uc.resolveContacts(userID, inv.BillToID, inv.SendToID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.resolveTemplate(inv.TemplateID, userID); err != nil {
		return nil, err
	}
	if other, _ := uc.invoiceRepo.GetByNumber(userID, inv.Number); other != nil && other.ID != invoiceID {
		return nil, fmt.Errorf("%w: el número de factura ya existe", domain.ErrDuplicate)
	}

	inv.ID = existing.ID
	inv.CreatedAt = existing.CreatedAt
	assignItemIDs(inv)

	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		return invoiceRepo.ReplaceItems(inv.ID, inv.Items)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, billTo.Name, sendTo.Name), nil
}

// GetInvoice obtiene una factura completa (líneas, sub-ítems y valuación).
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, userID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(userID, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener líneas: %w", err)
	}
	inv.Items = items

	billToName, sendToName := "", ""
	if c, _ := uc.contactRepo.GetByID(inv.BillToID); c != nil {
		billToName = c.Name
	}
	if c, _ := uc.contactRepo.GetByID(inv.SendToID); c != nil {
		sendToName = c.Name
	}
	return toInvoiceResponse(inv, billToName, sendToName), nil
}

// ListInvoices lista facturas del usuario con filtros, orden y paginación.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, userID string, q dto.InvoiceListQuery) ([]dto.InvoiceResponse, error) {
	q.DefaultPage()
	filter, err := buildInvoiceFilter(q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.invoiceRepo.ListByUser(userID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(rows))
	for i := range rows {
		resp := toInvoiceResponse(&rows[i].Invoice, rows[i].BillToName, rows[i].SendToName)
		out = append(out, *resp)
	}
	return out, nil
}

// GroupInvoices agrupa facturas por mes/año/contacto y devuelve conteo y suma.
func (uc *InvoiceUseCase) GroupInvoices(ctx context.Context, userID string, q dto.GroupedInvoicesQuery) ([]dto.InvoiceGroupResponse, error) {
	groupBy := splitGroupBy(q.GroupBy)
	if len(groupBy) == 0 {
		return nil, fmt.Errorf("%w: group_by requerido", domain.ErrInvalidInput)
	}
	for _, g := range groupBy {
		switch g {
		case repository.GroupByMonth, repository.GroupByYear, repository.GroupByBillTo, repository.GroupBySendTo:
		default:
			return nil, fmt.Errorf("%w: group_by no soportado: %q", domain.ErrInvalidInput, g)
		}
	}
	dateFrom, dateTo, err := parseDateRange(q.DateFrom, q.DateTo)
	if err != nil {
		return nil, err
	}
	rows, err := uc.invoiceRepo.GroupByUser(userID, groupBy, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceGroupResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.InvoiceGroupResponse{Keys: r.Keys, Count: r.Count, Total: r.Total})
	}
	return out, nil
}

// DeleteInvoice elimina la factura con sus líneas y sub-ítems (cascada).
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	if _, err := uc.ownedInvoice(userID, invoiceID); err != nil {
		return err
	}
	return uc.invoiceRepo.Delete(invoiceID)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// buildInvoice valida el request en la frontera y construye la entidad con la
// valuación ya calculada (agregador de dominio). No asigna IDs.
func (uc *InvoiceUseCase) buildInvoice(userID string, in dto.CreateInvoiceRequest) (*entity.Invoice, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, fmt.Errorf("%w: número de factura requerido", domain.ErrInvalidInput)
	}
	if strings.EqualFold(number, placeholderInvoiceNumber) {
		return nil, fmt.Errorf("%w: número de factura inválido", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(number) > maxInvoiceNumberLen {
		return nil, fmt.Errorf("%w: número de factura supera %d caracteres", domain.ErrInvalidInput, maxInvoiceNumberLen)
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha inválida (se espera YYYY-MM-DD)", domain.ErrInvalidInput)
	}
	if in.BillToID == "" || in.SendToID == "" {
		return nil, fmt.Errorf("%w: bill_to_id y send_to_id requeridos", domain.ErrInvalidInput)
	}
	if in.TemplateID == "" {
		return nil, fmt.Errorf("%w: template_id requerido", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.Notes) > maxNotesLen {
		return nil, fmt.Errorf("%w: notas superan %d caracteres", domain.ErrInvalidInput, maxNotesLen)
	}
	if err := domainbilling.ValidateInvoiceRates(in.DiscountPercentage, in.TaxRate); err != nil {
		return nil, err
	}

	// Si ninguna línea trae orden explícito, la posición del arreglo manda.
	// Con al menos un orden explícito se respetan los valores tal cual,
	// incluido un 0 legítimo.
	explicitOrder := false
	for _, it := range in.Items {
		if it.Order != 0 {
			explicitOrder = true
			break
		}
	}

	items := make([]entity.LineItem, 0, len(in.Items))
	for i, it := range in.Items {
		item := entity.LineItem{
			ID:                 it.ID,
			Description:        strings.TrimSpace(it.Description),
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			DiscountPercentage: it.DiscountPercentage,
			SortOrder:          it.Order,
		}
		if !explicitOrder {
			item.SortOrder = i
		}
		for j, sub := range it.SubItems {
			item.SubItems = append(item.SubItems, entity.SubItem{
				ID:          sub.ID,
				Description: strings.TrimSpace(sub.Description),
				SortOrder:   j,
			})
		}
		if err := domainbilling.ValidateLineItem(item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	// El orden de presentación rige desde aquí: el render del preview y las
	// respuestas ven las líneas igual que la lectura posterior desde SQL.
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].SortOrder < items[b].SortOrder
	})

	now := time.Now()
	inv := &entity.Invoice{
		UserID:             userID,
		Number:             number,
		Date:               date,
		BillToID:           in.BillToID,
		SendToID:           in.SendToID,
		DiscountPercentage: in.DiscountPercentage,
		TaxRate:            in.TaxRate,
		Notes:              strings.TrimSpace(in.Notes),
		TemplateID:         in.TemplateID,
		Items:              items,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	applyTotals(inv)
	return inv, nil
}

// applyTotals recalcula la valuación con el agregador y la deja en la caché
// de la cabecera. Es el único punto donde se escriben los totales.
func applyTotals(inv *entity.Invoice) {
	totals := domainbilling.ComputeTotals(inv.Items, inv.DiscountPercentage, inv.TaxRate)
	inv.Subtotal = totals.Subtotal
	inv.DiscountAmount = totals.DiscountAmount
	inv.DiscountedSubtotal = totals.DiscountedSubtotal
	inv.Tax = totals.Tax
	inv.Total = totals.Total
}

// assignItemIDs asigna UUIDs nuevos a líneas y sub-ítems y ata las referencias
// al padre. Los ítems se reemplazan en bloque, así que siempre son filas nuevas.
func assignItemIDs(inv *entity.Invoice) {
	for i := range inv.Items {
		inv.Items[i].ID = uuid.New().String()
		inv.Items[i].InvoiceID = inv.ID
		for j := range inv.Items[i].SubItems {
			inv.Items[i].SubItems[j].ID = uuid.New().String()
			inv.Items[i].SubItems[j].LineItemID = inv.Items[i].ID
		}
	}
}

// ownedInvoice carga la factura y verifica pertenencia al usuario.
func (uc *InvoiceUseCase) ownedInvoice(userID, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// resolveContacts valida que ambos contactos existan y sean del usuario.
func (uc *InvoiceUseCase) resolveContacts(userID, billToID, sendToID string) (billTo, sendTo *entity.Contact, err error) {
	billTo, err = uc.contactRepo.GetByID(billToID)
	if err != nil || billTo == nil {
		return nil, nil, fmt.Errorf("%w: contacto bill_to", domain.ErrNotFound)
	}
	sendTo, err = uc.contactRepo.GetByID(sendToID)
	if err != nil || sendTo == nil {
		return nil, nil, fmt.Errorf("%w: contacto send_to", domain.ErrNotFound)
	}
	if billTo.UserID != userID || sendTo.UserID != userID {
		return nil, nil, domain.ErrForbidden
	}
	return billTo, sendTo, nil
}

// resolveTemplate valida que el template exista y sea visible para el usuario
// (default compartido o propio).
func (uc *InvoiceUseCase) resolveTemplate(templateID, userID string) (*entity.Template, error) {
	tmpl, err := uc.templateRepo.GetByID(templateID, userID)
	if err != nil {
		return nil, fmt.Errorf("obtener template: %w", err)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: template", domain.ErrNotFound)
	}
	return tmpl, nil
}

func buildInvoiceFilter(q dto.InvoiceListQuery) (repository.InvoiceFilter, error) {
	filter := repository.InvoiceFilter{
		Number:     strings.TrimSpace(q.Number),
		BillToName: strings.TrimSpace(q.BillToName),
		SendToName: strings.TrimSpace(q.SendToName),
		SortOrder:  strings.ToLower(q.SortOrder),
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	var err error
	filter.DateFrom, filter.DateTo, err = parseDateRange(q.DateFrom, q.DateTo)
	if err != nil {
		return filter, err
	}
	if q.TotalMin != "" {
		totalMin, err := decimal.NewFromString(q.TotalMin)
		if err != nil {
			return filter, fmt.Errorf("%w: total_min inválido", domain.ErrInvalidInput)
		}
		filter.TotalMin = &totalMin
	}
	if q.TotalMax != "" {
		totalMax, err := decimal.NewFromString(q.TotalMax)
		if err != nil {
			return filter, fmt.Errorf("%w: total_max inválido", domain.ErrInvalidInput)
		}
		filter.TotalMax = &totalMax
	}
	switch q.SortBy {
	case "", repository.SortByNumber, repository.SortByDate, repository.SortByTotal,
		repository.SortByBillToName, repository.SortBySendToName:
		filter.SortBy = q.SortBy
	default:
		return filter, fmt.Errorf("%w: sort_by no soportado: %q", domain.ErrInvalidInput, q.SortBy)
	}
	if filter.SortOrder != "" && filter.SortOrder != "asc" && filter.SortOrder != "desc" {
		return filter, fmt.Errorf("%w: sort_order debe ser asc o desc", domain.ErrInvalidInput)
	}
	return filter, nil
}

func parseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var dateFrom, dateTo *time.Time
	if from != "" {
		d, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: date_from inválida", domain.ErrInvalidInput)
		}
		dateFrom = &d
	}
	if to != "" {
		d, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: date_to inválida", domain.ErrInvalidInput)
		}
		dateTo = &d
	}
	return dateFrom, dateTo, nil
}

func splitGroupBy(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice, billToName, sendToName string) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                 inv.ID,
		Number:             inv.Number,
		Date:               inv.Date.Format("2006-01-02"),
		BillToID:           inv.BillToID,
		BillToName:         billToName,
		SendToID:           inv.SendToID,
		SendToName:         sendToName,
		DiscountPercentage: inv.DiscountPercentage,
		TaxRate:            inv.TaxRate,
		Notes:              inv.Notes,
		TemplateID:         inv.TemplateID,
		Items:              make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		Subtotal:           inv.Subtotal,
		DiscountAmount:     inv.DiscountAmount,
		DiscountedSubtotal: inv.DiscountedSubtotal,
		Tax:                inv.Tax,
		Total:              inv.Total,
	}
	for _, item := range inv.Items {
		itemResp := dto.InvoiceItemResponse{
			ID:                 item.ID,
			Description:        item.Description,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			DiscountPercentage: item.DiscountPercentage,
			Order:              item.SortOrder,
			LineTotal:          domainbilling.LineTotal(item.Quantity, item.UnitPrice, item.DiscountPercentage),
			SubItems:           make([]dto.SubItemResponse, 0, len(item.SubItems)),
		}
		for _, sub := range item.SubItems {
			itemResp.SubItems = append(itemResp.SubItems, dto.SubItemResponse{
				ID:          sub.ID,
				Description: sub.Description,
			})
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}
