package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type procurementService struct {
	pool *pgxpool.Pool
}

// NewProcurementService constructs a ProcurementService backed by PostgreSQL.
func NewProcurementService(pool *pgxpool.Pool) ProcurementService {
	return &procurementService{pool: pool}
}

// CreateMaterialRequest validates the project (and subgroup) and records the request.
func (s *procurementService) CreateMaterialRequest(ctx context.Context, actor Actor, input MaterialRequestInput) (*MaterialRequest, error) {
	if len(input.Items) == 0 {
		return nil, validationErrorf("material request must have at least one item")
	}
	input.Items = slices.Clone(input.Items)
	for i, it := range input.Items {
		if strings.TrimSpace(it.ItemName) == "" {
			return nil, validationErrorf("item %d: name is required", i+1)
		}
		it.Quantity = it.Quantity.Round(LengthPlaces)
		input.Items[i].Quantity = it.Quantity
		if !it.Quantity.IsPositive() {
			return nil, validationErrorf("item %d: quantity must be positive", i+1)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var projectExists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)", input.ProjectID,
	).Scan(&projectExists); err != nil {
		return nil, fmt.Errorf("validate project: %w", err)
	}
	if !projectExists {
		return nil, notFoundf("project %d", input.ProjectID)
	}

	if input.SubGroupID != nil {
		var sgExists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM project_subgroups WHERE id = $1 AND project_id = $2)",
			*input.SubGroupID, input.ProjectID,
		).Scan(&sgExists); err != nil {
			return nil, fmt.Errorf("validate subgroup: %w", err)
		}
		if !sgExists {
			return nil, notFoundf("subgroup %d in project %d", *input.SubGroupID, input.ProjectID)
		}
	}

	var mrID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO material_requests (project_id, subgroup_id, requested_by, status, notes)
		VALUES ($1, $2, $3, 'REQUESTED', $4)
		RETURNING id`,
		input.ProjectID, input.SubGroupID, actor.UserID, input.Notes,
	).Scan(&mrID); err != nil {
		return nil, fmt.Errorf("insert material request: %w", err)
	}

	for i, it := range input.Items {
		unit := it.Unit
		if unit == "" {
			unit = "nos"
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO material_request_items
			            (material_request_id, line_number, item_id, item_name, quantity, unit, is_system_item)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			mrID, i+1, it.ItemID, it.ItemName, it.Quantity, unit, it.IsSystemItem,
		); err != nil {
			return nil, fmt.Errorf("insert material request item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit material request: %w", err)
	}
	return s.GetMaterialRequest(ctx, mrID)
}

// GetMaterialRequest returns a material request with its items in line order.
func (s *procurementService) GetMaterialRequest(ctx context.Context, mrID int) (*MaterialRequest, error) {
	mr := &MaterialRequest{}
	var status string
	if err := s.pool.QueryRow(ctx, `
		SELECT id, project_id, subgroup_id, requested_by, status, notes, created_at
		FROM material_requests
		WHERE id = $1`,
		mrID,
	).Scan(&mr.ID, &mr.ProjectID, &mr.SubGroupID, &mr.RequestedBy, &status, &mr.Notes, &mr.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("material request %d", mrID)
		}
		return nil, fmt.Errorf("get material request %d: %w", mrID, err)
	}
	mr.Status = MaterialRequestStatus(status)

	rows, err := s.pool.Query(ctx, `
		SELECT id, line_number, item_id, item_name, quantity, unit, is_system_item
		FROM material_request_items
		WHERE material_request_id = $1
		ORDER BY line_number`,
		mrID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch items for material request %d: %w", mrID, err)
	}
	defer rows.Close()

	mr.Items = []MaterialRequestItem{}
	for rows.Next() {
		var it MaterialRequestItem
		if err := rows.Scan(&it.ID, &it.LineNumber, &it.ItemID, &it.ItemName, &it.Quantity, &it.Unit, &it.IsSystemItem); err != nil {
			return nil, fmt.Errorf("scan material request item: %w", err)
		}
		mr.Items = append(mr.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate material request items: %w", err)
	}
	return mr, nil
}

// SubmitVendorQuote stores the quote and moves a REQUESTED request to QUOTED.
func (s *procurementService) SubmitVendorQuote(ctx context.Context, mrID int, input VendorQuoteInput) (*VendorQuote, error) {
	input.QuoteNumber = strings.TrimSpace(input.QuoteNumber)
	if input.QuoteNumber == "" {
		return nil, validationErrorf("quote number is required")
	}
	if len(input.Lines) == 0 {
		return nil, validationErrorf("vendor quote must have at least one line")
	}

	input.Lines = slices.Clone(input.Lines)
	computed := decimal.Zero
	for i, l := range input.Lines {
		l.Quantity = l.Quantity.Round(LengthPlaces)
		l.UnitRate = l.UnitRate.Round(MoneyPlaces)
		input.Lines[i] = l
		if strings.TrimSpace(l.Description) == "" {
			return nil, validationErrorf("quote line %d: description is required", i+1)
		}
		if l.Quantity.IsNegative() || l.UnitRate.IsNegative() {
			return nil, validationErrorf("quote line %d: quantity and unit rate must not be negative", i+1)
		}
		if l.LeadTimeDays < 0 {
			return nil, validationErrorf("quote line %d: lead time must not be negative", i+1)
		}
		computed = computed.Add(lineSubtotal(l.Quantity, l.UnitRate))
	}
	total := computed
	if input.TotalAmount != nil {
		if input.TotalAmount.IsNegative() {
			return nil, validationErrorf("total amount must not be negative")
		}
		total = input.TotalAmount.Round(MoneyPlaces)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockMaterialRequest(ctx, tx, mrID)
	if err != nil {
		return nil, err
	}
	if !status.AcceptsQuotes() {
		return nil, &InvalidTransitionError{Entity: "material request", ID: mrID, From: string(status), Action: "accept quotes"}
	}

	if err := requireActiveVendor(ctx, tx, input.VendorID); err != nil {
		return nil, err
	}

	var quoteID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO vendor_quotes (material_request_id, vendor_id, quote_number, quoted_by, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		mrID, input.VendorID, input.QuoteNumber, input.QuotedBy, total,
	).Scan(&quoteID); err != nil {
		return nil, fmt.Errorf("insert vendor quote: %w", err)
	}

	for i, l := range input.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO vendor_quote_lines
			            (vendor_quote_id, line_number, item_id, description, quantity, unit_rate, lead_time_days)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			quoteID, i+1, l.ItemID, l.Description, l.Quantity, l.UnitRate, l.LeadTimeDays,
		); err != nil {
			return nil, fmt.Errorf("insert vendor quote line %d: %w", i+1, err)
		}
	}

	if status == MRRequested {
		if _, err := tx.Exec(ctx,
			"UPDATE material_requests SET status = 'QUOTED' WHERE id = $1", mrID,
		); err != nil {
			return nil, fmt.Errorf("mark material request %d quoted: %w", mrID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit vendor quote: %w", err)
	}

	quotes, err := fetchVendorQuotes(ctx, s.pool, "vq.id = $1", quoteID)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, notFoundf("vendor quote %d", quoteID)
	}
	return &quotes[0], nil
}

// ListVendorQuotes returns the request's quotes in submission order.
func (s *procurementService) ListVendorQuotes(ctx context.Context, mrID int) ([]VendorQuote, error) {
	if _, err := s.GetMaterialRequest(ctx, mrID); err != nil {
		return nil, err
	}
	return fetchVendorQuotes(ctx, s.pool, "vq.material_request_id = $1", mrID)
}

// CompareQuotes loads the request and its quotes and builds the comparison matrix.
func (s *procurementService) CompareQuotes(ctx context.Context, mrID int) (*ComparisonMatrix, error) {
	mr, err := s.GetMaterialRequest(ctx, mrID)
	if err != nil {
		return nil, err
	}
	quotes, err := fetchVendorQuotes(ctx, s.pool, "vq.material_request_id = $1", mrID)
	if err != nil {
		return nil, err
	}
	return CompareVendorQuotes(mr.ID, mr.Items, quotes), nil
}

// CreatePurchaseOrder copies the chosen quote into a numbered purchase order and moves
// the request to PO_CREATED.
func (s *procurementService) CreatePurchaseOrder(ctx context.Context, mrID, vendorQuoteID int, actor Actor) (*PurchaseOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockMaterialRequest(ctx, tx, mrID)
	if err != nil {
		return nil, err
	}
	if status != MRQuoted {
		return nil, &InvalidTransitionError{Entity: "material request", ID: mrID, From: string(status), Action: "create purchase order"}
	}

	var vendorID int
	var total decimal.Decimal
	if err := tx.QueryRow(ctx,
		"SELECT vendor_id, total_amount FROM vendor_quotes WHERE id = $1 AND material_request_id = $2",
		vendorQuoteID, mrID,
	).Scan(&vendorID, &total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("vendor quote %d on material request %d", vendorQuoteID, mrID)
		}
		return nil, fmt.Errorf("fetch vendor quote %d: %w", vendorQuoteID, err)
	}

	poNumber, err := nextDocumentNumberTx(ctx, tx, PurchaseOrderNumberPrefix, time.Now().Year())
	if err != nil {
		return nil, err
	}

	var poID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (material_request_id, vendor_quote_id, vendor_id, po_number,
		                             total_amount, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		mrID, vendorQuoteID, vendorID, poNumber, total, actor.UserID,
	).Scan(&poID); err != nil {
		return nil, fmt.Errorf("insert purchase order: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO purchase_order_lines
		            (purchase_order_id, line_number, item_id, description, quantity, unit_rate, line_total)
		SELECT $1, line_number, item_id, description, quantity, unit_rate, ROUND(quantity * unit_rate, 2)
		FROM vendor_quote_lines
		WHERE vendor_quote_id = $2
		ORDER BY line_number`,
		poID, vendorQuoteID,
	); err != nil {
		return nil, fmt.Errorf("copy quote lines to purchase order: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE material_requests SET status = 'PO_CREATED' WHERE id = $1", mrID,
	); err != nil {
		return nil, fmt.Errorf("mark material request %d ordered: %w", mrID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase order: %w", err)
	}
	return s.GetPurchaseOrder(ctx, poID)
}

// CancelMaterialRequest cancels a request that has no purchase order yet.
func (s *procurementService) CancelMaterialRequest(ctx context.Context, mrID int) (*MaterialRequest, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockMaterialRequest(ctx, tx, mrID)
	if err != nil {
		return nil, err
	}
	if !status.AcceptsQuotes() {
		return nil, &InvalidTransitionError{Entity: "material request", ID: mrID, From: string(status), Action: "cancel"}
	}

	if _, err := tx.Exec(ctx,
		"UPDATE material_requests SET status = 'CANCELLED' WHERE id = $1", mrID,
	); err != nil {
		return nil, fmt.Errorf("cancel material request %d: %w", mrID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancel: %w", err)
	}
	return s.GetMaterialRequest(ctx, mrID)
}

// GetPurchaseOrder returns a purchase order with its vendor name and lines.
func (s *procurementService) GetPurchaseOrder(ctx context.Context, poID int) (*PurchaseOrder, error) {
	po := &PurchaseOrder{}
	if err := s.pool.QueryRow(ctx, `
		SELECT po.id, po.material_request_id, po.vendor_quote_id, po.vendor_id, v.name,
		       po.po_number, po.total_amount, po.created_by, po.created_at
		FROM purchase_orders po
		JOIN vendors v ON v.id = po.vendor_id
		WHERE po.id = $1`,
		poID,
	).Scan(
		&po.ID, &po.MaterialRequestID, &po.VendorQuoteID, &po.VendorID, &po.VendorName,
		&po.PONumber, &po.TotalAmount, &po.CreatedBy, &po.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("purchase order %d", poID)
		}
		return nil, fmt.Errorf("get purchase order %d: %w", poID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, line_number, item_id, description, quantity, unit_rate, line_total
		FROM purchase_order_lines
		WHERE purchase_order_id = $1
		ORDER BY line_number`,
		poID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch lines for purchase order %d: %w", poID, err)
	}
	defer rows.Close()

	po.Lines = []PurchaseOrderLine{}
	for rows.Next() {
		var l PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.LineNumber, &l.ItemID, &l.Description, &l.Quantity, &l.UnitRate, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		po.Lines = append(po.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase order lines: %w", err)
	}
	return po, nil
}

func lockMaterialRequest(ctx context.Context, tx pgx.Tx, mrID int) (MaterialRequestStatus, error) {
	var status string
	if err := tx.QueryRow(ctx,
		"SELECT status FROM material_requests WHERE id = $1 FOR UPDATE", mrID,
	).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", notFoundf("material request %d", mrID)
		}
		return "", fmt.Errorf("lock material request %d: %w", mrID, err)
	}
	return MaterialRequestStatus(status), nil
}

func requireActiveVendor(ctx context.Context, q pgxQuerier, vendorID int) error {
	var exists bool
	if err := q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM vendors WHERE id = $1 AND is_active = true)", vendorID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("validate vendor: %w", err)
	}
	if !exists {
		return notFoundf("vendor %d", vendorID)
	}
	return nil
}

// fetchVendorQuotes loads quotes matching where (one positional argument) with their lines,
// ordered by submission.
func fetchVendorQuotes(ctx context.Context, q pgxQuerier, where string, arg any) ([]VendorQuote, error) {
	rows, err := q.Query(ctx, `
		SELECT vq.id, vq.material_request_id, vq.vendor_id, v.name, vq.quote_number,
		       vq.quoted_by, vq.total_amount, vq.created_at
		FROM vendor_quotes vq
		JOIN vendors v ON v.id = vq.vendor_id
		WHERE `+where+`
		ORDER BY vq.id`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch vendor quotes: %w", err)
	}

	quotes := []VendorQuote{}
	index := map[int]int{}
	for rows.Next() {
		var vq VendorQuote
		if err := rows.Scan(&vq.ID, &vq.MaterialRequestID, &vq.VendorID, &vq.VendorName,
			&vq.QuoteNumber, &vq.QuotedBy, &vq.TotalAmount, &vq.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan vendor quote: %w", err)
		}
		vq.Lines = []VendorQuoteLine{}
		index[vq.ID] = len(quotes)
		quotes = append(quotes, vq)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendor quotes: %w", err)
	}
	if len(quotes) == 0 {
		return quotes, nil
	}

	ids := make([]int, 0, len(quotes))
	for _, vq := range quotes {
		ids = append(ids, vq.ID)
	}
	lineRows, err := q.Query(ctx, `
		SELECT vendor_quote_id, id, line_number, item_id, description, quantity, unit_rate, lead_time_days
		FROM vendor_quote_lines
		WHERE vendor_quote_id = ANY($1)
		ORDER BY vendor_quote_id, line_number`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch vendor quote lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var quoteID int
		var l VendorQuoteLine
		if err := lineRows.Scan(&quoteID, &l.ID, &l.LineNumber, &l.ItemID, &l.Description,
			&l.Quantity, &l.UnitRate, &l.LeadTimeDays); err != nil {
			return nil, fmt.Errorf("scan vendor quote line: %w", err)
		}
		i := index[quoteID]
		quotes[i].Lines = append(quotes[i].Lines, l)
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendor quote lines: %w", err)
	}
	return quotes, nil
}
