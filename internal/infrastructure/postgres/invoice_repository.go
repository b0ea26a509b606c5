package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
	"github.com/tu-usuario/invoice-pro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, user_id, invoice_number, date, bill_to_id, send_to_id,
	discount_percentage, tax_rate, COALESCE(notes, ''), template_id,
	subtotal, discount_amount, discounted_subtotal, tax, total,
	created_at, updated_at`

// Create persiste la cabecera de la factura con sus totales cacheados.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, invoice_number, date, bill_to_id, send_to_id,
		                      discount_percentage, tax_rate, notes, template_id,
		                      subtotal, discount_amount, discounted_subtotal, tax, total,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.UserID, invoice.Number, invoice.Date,
		invoice.BillToID, invoice.SendToID,
		invoice.DiscountPercentage, invoice.TaxRate,
		nullIfEmpty(invoice.Notes), invoice.TemplateID,
		invoice.Subtotal, invoice.DiscountAmount, invoice.DiscountedSubtotal,
		invoice.Tax, invoice.Total,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de factura ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update reemplaza la cabecera completa (el número, las tasas y los totales
// recalculados).
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET invoice_number = $2, date = $3, bill_to_id = $4, send_to_id = $5,
		    discount_percentage = $6, tax_rate = $7, notes = $8, template_id = $9,
		    subtotal = $10, discount_amount = $11, discounted_subtotal = $12,
		    tax = $13, total = $14, updated_at = $15
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Number, invoice.Date,
		invoice.BillToID, invoice.SendToID,
		invoice.DiscountPercentage, invoice.TaxRate,
		nullIfEmpty(invoice.Notes), invoice.TemplateID,
		invoice.Subtotal, invoice.DiscountAmount, invoice.DiscountedSubtotal,
		invoice.Tax, invoice.Total, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de factura ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// ReplaceItems borra las líneas de la factura (sub-ítems en cascada) e inserta
// las recibidas. Va siempre dentro de la misma tx que Create/Update.
func (r *InvoiceRepo) ReplaceItems(invoiceID string, items []entity.LineItem) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	for _, item := range items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, discount_percentage, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, invoiceID, item.Description,
			item.Quantity, item.UnitPrice, item.DiscountPercentage, item.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
		for _, sub := range item.SubItems {
			_, err := r.q.Exec(ctx, `
				INSERT INTO invoice_subitems (id, item_id, description, sort_order)
				VALUES ($1, $2, $3, $4)`,
				sub.ID, item.ID, sub.Description, sub.SortOrder,
			)
			if err != nil {
				return fmt.Errorf("insert invoice subitem: %w", err)
			}
		}
	}
	return nil
}

// GetByID obtiene la cabecera de una factura por ID (sin líneas).
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByNumber obtiene la cabecera por número dentro del usuario.
func (r *InvoiceRepo) GetByNumber(userID, number string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 AND invoice_number = $2`
	return r.scanOne(query, userID, number)
}

// GetItemsByInvoiceID devuelve las líneas con sus sub-ítems, ordenadas por
// sort_order.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]entity.LineItem, error) {
	ctx := context.Background()
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, description, quantity, unit_price, discount_percentage, sort_order
		FROM invoice_items WHERE invoice_id = $1 ORDER BY sort_order, id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var items []entity.LineItem
	index := make(map[string]int)
	for rows.Next() {
		var it entity.LineItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.DiscountPercentage, &it.SortOrder); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	subRows, err := r.q.Query(ctx, `
		SELECT s.id, s.item_id, s.description, s.sort_order
		FROM invoice_subitems s
		JOIN invoice_items i ON i.id = s.item_id
		WHERE i.invoice_id = $1
		ORDER BY s.sort_order, s.id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice subitems: %w", err)
	}
	defer subRows.Close()
	for subRows.Next() {
		var sub entity.SubItem
		if err := subRows.Scan(&sub.ID, &sub.LineItemID, &sub.Description, &sub.SortOrder); err != nil {
			return nil, fmt.Errorf("scan invoice subitem: %w", err)
		}
		if i, ok := index[sub.LineItemID]; ok {
			items[i].SubItems = append(items[i].SubItems, sub)
		}
	}
	return items, subRows.Err()
}

// ListByUser lista cabeceras con nombres de contacto (join), con filtros,
// orden y paginación. Los filtros de texto son substring case-insensitive.
func (r *InvoiceRepo) ListByUser(userID string, filter repository.InvoiceFilter) ([]repository.InvoiceSummary, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT i.id, i.user_id, i.invoice_number, i.date, i.bill_to_id, i.send_to_id,
		       i.discount_percentage, i.tax_rate, COALESCE(i.notes, ''), i.template_id,
		       i.subtotal, i.discount_amount, i.discounted_subtotal, i.tax, i.total,
		       i.created_at, i.updated_at,
		       b.name AS bill_to_name, s.name AS send_to_name
		FROM invoices i
		JOIN contacts b ON b.id = i.bill_to_id
		JOIN contacts s ON s.id = i.send_to_id
		WHERE i.user_id = $1`)
	args := []any{userID}

	addArg := func(clause string, value any) {
		args = append(args, value)
		sb.WriteString(fmt.Sprintf(clause, len(args)))
	}
	if filter.Number != "" {
		addArg(" AND i.invoice_number ILIKE '%%' || $%d || '%%'", filter.Number)
	}
	if filter.BillToName != "" {
		addArg(" AND b.name ILIKE '%%' || $%d || '%%'", filter.BillToName)
	}
	if filter.SendToName != "" {
		addArg(" AND s.name ILIKE '%%' || $%d || '%%'", filter.SendToName)
	}
	if filter.DateFrom != nil {
		addArg(" AND i.date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addArg(" AND i.date <= $%d", *filter.DateTo)
	}
	if filter.TotalMin != nil {
		addArg(" AND i.total >= $%d", *filter.TotalMin)
	}
	if filter.TotalMax != nil {
		addArg(" AND i.total <= $%d", *filter.TotalMax)
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(sortColumn(filter.SortBy))
	if strings.EqualFold(filter.SortOrder, "desc") {
		sb.WriteString(" DESC")
	}
	sb.WriteString(", i.id")
	addArg(" LIMIT $%d", filter.Limit)
	addArg(" OFFSET $%d", filter.Offset)

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []repository.InvoiceSummary
	for rows.Next() {
		var s repository.InvoiceSummary
		inv := &s.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.UserID, &inv.Number, &inv.Date, &inv.BillToID, &inv.SendToID,
			&inv.DiscountPercentage, &inv.TaxRate, &inv.Notes, &inv.TemplateID,
			&inv.Subtotal, &inv.DiscountAmount, &inv.DiscountedSubtotal, &inv.Tax, &inv.Total,
			&inv.CreatedAt, &inv.UpdatedAt,
			&s.BillToName, &s.SendToName,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GroupByUser agrega facturas por las dimensiones pedidas (mes, año, contacto)
// y devuelve conteo y suma de totales por cubeta.
func (r *InvoiceRepo) GroupByUser(userID string, groupBy []string, dateFrom, dateTo *time.Time) ([]repository.InvoiceGroupRow, error) {
	exprs := make([]string, 0, len(groupBy))
	for _, g := range groupBy {
		expr, err := groupExpr(g)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	keyList := strings.Join(exprs, ", ")

	var sb strings.Builder
	sb.WriteString("SELECT " + keyList + ", COUNT(*), COALESCE(SUM(i.total), 0)\n")
	sb.WriteString(`FROM invoices i
		JOIN contacts b ON b.id = i.bill_to_id
		JOIN contacts s ON s.id = i.send_to_id
		WHERE i.user_id = $1`)
	args := []any{userID}
	if dateFrom != nil {
		args = append(args, *dateFrom)
		sb.WriteString(fmt.Sprintf(" AND i.date >= $%d", len(args)))
	}
	if dateTo != nil {
		args = append(args, *dateTo)
		sb.WriteString(fmt.Sprintf(" AND i.date <= $%d", len(args)))
	}
	sb.WriteString(" GROUP BY " + keyList)
	sb.WriteString(" ORDER BY " + keyList)

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("group invoices: %w", err)
	}
	defer rows.Close()

	var out []repository.InvoiceGroupRow
	for rows.Next() {
		row := repository.InvoiceGroupRow{Keys: make([]string, len(exprs))}
		dest := make([]any, 0, len(exprs)+2)
		for i := range row.Keys {
			dest = append(dest, &row.Keys[i])
		}
		dest = append(dest, &row.Count, &row.Total)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Delete elimina la factura; líneas y sub-ítems caen por FK ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) scanOne(query string, args ...any) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&inv.ID, &inv.UserID, &inv.Number, &inv.Date, &inv.BillToID, &inv.SendToID,
		&inv.DiscountPercentage, &inv.TaxRate, &inv.Notes, &inv.TemplateID,
		&inv.Subtotal, &inv.DiscountAmount, &inv.DiscountedSubtotal, &inv.Tax, &inv.Total,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// sortColumn mapea el campo de orden pedido a una columna segura. Cualquier
// valor fuera de la lista cae en fecha descendente por defecto.
func sortColumn(sortBy string) string {
	switch sortBy {
	case repository.SortByNumber:
		return "i.invoice_number"
	case repository.SortByTotal:
		return "i.total"
	case repository.SortByBillToName:
		return "b.name"
	case repository.SortBySendToName:
		return "s.name"
	case repository.SortByDate:
		return "i.date"
	default:
		return "i.date"
	}
}

func groupExpr(g string) (string, error) {
	switch g {
	case repository.GroupByMonth:
		return "to_char(i.date, 'YYYY-MM')", nil
	case repository.GroupByYear:
		return "to_char(i.date, 'YYYY')", nil
	case repository.GroupByBillTo:
		return "b.name", nil
	case repository.GroupBySendTo:
		return "s.name", nil
	default:
		return "", fmt.Errorf("%w: group_by no soportado: %q", domain.ErrInvalidInput, g)
	}
}
