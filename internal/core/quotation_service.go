package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type quotationService struct {
	pool     *pgxpool.Pool
	policy   ApprovalPolicy
	notifier Notifier
	log      *zap.Logger
}

// NewQuotationService constructs a QuotationService backed by PostgreSQL.
// notifier may be nil, in which case notification requests are skipped.
func NewQuotationService(pool *pgxpool.Pool, policy ApprovalPolicy, notifier Notifier, log *zap.Logger) QuotationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &quotationService{pool: pool, policy: policy, notifier: notifier, log: log}
}

// CreateQuotation validates and persists a DRAFT quotation with any initial lines.
func (s *quotationService) CreateQuotation(ctx context.Context, actor Actor, input QuotationInput) (*Quotation, error) {
	if input.ValidityDays == 0 {
		input.ValidityDays = 30
	}
	if err := validateHeader(input.Discount, input.VATPercent, input.ValidityDays); err != nil {
		return nil, err
	}
	for i, l := range input.Lines {
		if err := l.validate(i + 1); err != nil {
			return nil, err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := requireClient(ctx, tx, input.ClientID); err != nil {
		return nil, err
	}

	number, err := nextDocumentNumberTx(ctx, tx, QuotationNumberPrefix, time.Now().Year())
	if err != nil {
		return nil, err
	}

	var quotationID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO quotations (quotation_number, client_id, inquiry_id, prepared_by, validity_days,
		                        discount, vat_percent, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'DRAFT')
		RETURNING id`,
		number, input.ClientID, input.InquiryID, actor.UserID, input.ValidityDays,
		input.Discount, input.VATPercent, input.Notes,
	).Scan(&quotationID); err != nil {
		return nil, fmt.Errorf("insert quotation: %w", err)
	}

	for i, l := range input.Lines {
		if err := insertLine(ctx, tx, quotationID, i+1, l); err != nil {
			return nil, err
		}
	}

	if err := recalcTotals(ctx, tx, quotationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit quotation: %w", err)
	}

	return s.GetQuotation(ctx, quotationID)
}

// UpdateQuotation changes header fields on an editable quotation and recomputes totals.
func (s *quotationService) UpdateQuotation(ctx context.Context, quotationID int, upd QuotationUpdate) (*Quotation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockQuotation(ctx, tx, quotationID)
	if err != nil {
		return nil, err
	}
	if err := requireEditable(quotationID, status); err != nil {
		return nil, err
	}

	var validity int
	var discount, vat decimal.Decimal
	var notes string
	if err := tx.QueryRow(ctx,
		"SELECT validity_days, discount, vat_percent, notes FROM quotations WHERE id = $1",
		quotationID,
	).Scan(&validity, &discount, &vat, &notes); err != nil {
		return nil, fmt.Errorf("fetch quotation %d header: %w", quotationID, err)
	}
	if upd.ValidityDays != nil {
		validity = *upd.ValidityDays
	}
	if upd.Discount != nil {
		discount = *upd.Discount
	}
	if upd.VATPercent != nil {
		vat = *upd.VATPercent
	}
	if upd.Notes != nil {
		notes = *upd.Notes
	}
	if err := validateHeader(discount, vat, validity); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE quotations
		SET validity_days = $1, discount = $2, vat_percent = $3, notes = $4
		WHERE id = $5`,
		validity, discount, vat, notes, quotationID,
	); err != nil {
		return nil, fmt.Errorf("update quotation %d: %w", quotationID, err)
	}

	if err := recalcTotals(ctx, tx, quotationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit quotation update: %w", err)
	}
	return s.GetQuotation(ctx, quotationID)
}

// DeleteQuotation removes a DRAFT quotation and its lines.
func (s *quotationService) DeleteQuotation(ctx context.Context, quotationID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockQuotation(ctx, tx, quotationID)
	if err != nil {
		return err
	}
	if status != QuotationDraft {
		return &InvalidTransitionError{Entity: "quotation", ID: quotationID, From: string(status), Action: "delete"}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM quotations WHERE id = $1", quotationID); err != nil {
		return fmt.Errorf("delete quotation %d: %w", quotationID, err)
	}
	return tx.Commit(ctx)
}

// AddLine prices and appends a line to an editable quotation.
func (s *quotationService) AddLine(ctx context.Context, quotationID int, line LineInput) (*Quotation, error) {
	return s.editLines(ctx, quotationID, func(tx pgx.Tx) error {
		var next int
		if err := tx.QueryRow(ctx,
			"SELECT COALESCE(MAX(line_number), 0) + 1 FROM quotation_lines WHERE quotation_id = $1",
			quotationID,
		).Scan(&next); err != nil {
			return fmt.Errorf("next line number: %w", err)
		}
		if err := line.validate(next); err != nil {
			return err
		}
		return insertLine(ctx, tx, quotationID, next, line)
	})
}

// UpdateLine replaces a line's inputs and reprices it. An area that was derived from
// the old dimensions and is sent back unchanged is derived again from the new ones.
func (s *quotationService) UpdateLine(ctx context.Context, quotationID, lineID int, line LineInput) (*Quotation, error) {
	return s.editLines(ctx, quotationID, func(tx pgx.Tx) error {
		var lineNo int
		var storedArea *decimal.Decimal
		var areaDerived bool
		if err := tx.QueryRow(ctx,
			"SELECT line_number, area_sqm, area_derived FROM quotation_lines WHERE id = $1 AND quotation_id = $2",
			lineID, quotationID,
		).Scan(&lineNo, &storedArea, &areaDerived); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return notFoundf("line %d on quotation %d", lineID, quotationID)
			}
			return fmt.Errorf("fetch line %d: %w", lineID, err)
		}
		if err := line.validate(lineNo); err != nil {
			return err
		}
		if areaDerived && echoesArea(line.AreaSqm, storedArea) {
			line.AreaSqm = nil
		}

		in, price, st := priceForStorage(line)
		if _, err := tx.Exec(ctx, `
			UPDATE quotation_lines
			SET item_name = $1, width = $2, height = $3, quantity = $4, area_sqm = $5,
			    area_derived = $6, running_meter = $7, unit_rate = $8, system_type = $9,
			    labour_cost = $10, overheads = $11, remarks = $12, line_total = $13
			WHERE id = $14`,
			in.ItemName, in.Width, in.Height, normalizeQuantity(in.Quantity), price.AreaSqm,
			price.Basis == BasisDimensions, in.RunningMeter, in.UnitRate, string(st),
			in.LabourCost, in.Overheads, in.Remarks, price.LineTotal, lineID,
		); err != nil {
			return fmt.Errorf("update line %d: %w", lineID, err)
		}
		return nil
	})
}

func echoesArea(sent, stored *decimal.Decimal) bool {
	return sent != nil && stored != nil && sent.Round(MoneyPlaces).Equal(*stored)
}

// RemoveLine deletes a line from an editable quotation.
func (s *quotationService) RemoveLine(ctx context.Context, quotationID, lineID int) (*Quotation, error) {
	return s.editLines(ctx, quotationID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			"DELETE FROM quotation_lines WHERE id = $1 AND quotation_id = $2",
			lineID, quotationID,
		)
		if err != nil {
			return fmt.Errorf("delete line %d: %w", lineID, err)
		}
		if tag.RowsAffected() == 0 {
			return notFoundf("line %d on quotation %d", lineID, quotationID)
		}
		return nil
	})
}

// editLines locks the quotation, checks it is editable, applies fn and recomputes totals
// in one transaction.
func (s *quotationService) editLines(ctx context.Context, quotationID int, fn func(tx pgx.Tx) error) (*Quotation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockQuotation(ctx, tx, quotationID)
	if err != nil {
		return nil, err
	}
	if err := requireEditable(quotationID, status); err != nil {
		return nil, err
	}

	if err := fn(tx); err != nil {
		return nil, err
	}
	if err := recalcTotals(ctx, tx, quotationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit line change: %w", err)
	}
	return s.GetQuotation(ctx, quotationID)
}

// Send transitions DRAFT → SENT and then dispatches the optional notification.
func (s *quotationService) Send(ctx context.Context, quotationID int, actor Actor, opts SendOptions) (*Quotation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockQuotation(ctx, tx, quotationID)
	if err != nil {
		return nil, err
	}
	next, err := s.policy.checkTransition(quotationID, status, ActionSend, actor)
	if err != nil {
		return nil, err
	}

	var lineCount int
	if err := tx.QueryRow(ctx,
		"SELECT COUNT(*) FROM quotation_lines WHERE quotation_id = $1", quotationID,
	).Scan(&lineCount); err != nil {
		return nil, fmt.Errorf("count lines: %w", err)
	}
	if lineCount == 0 {
		return nil, validationErrorf("quotation %d has no lines and cannot be sent", quotationID)
	}

	if err := guardedUpdate(ctx, tx, quotationID, status, ActionSend, `
		UPDATE quotations SET status = $1, sent_by = $2, sent_at = NOW()
		WHERE id = $3 AND status = $4`,
		string(next), actor.UserID, quotationID, string(status),
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit send: %w", err)
	}

	q, err := s.GetQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if opts.Notify && s.notifier != nil {
		if err := s.notifier.QuotationSent(ctx, q, opts.Recipients, opts.Attachment); err != nil {
			s.log.Warn("quotation sent notification failed",
				zap.Int("quotation_id", quotationID), zap.Error(err))
		}
	}
	return q, nil
}

// Approve transitions SENT → APPROVED for an actor holding an approver role.
func (s *quotationService) Approve(ctx context.Context, quotationID int, actor Actor) (*Quotation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockQuotation(ctx, tx, quotationID)
	if err != nil {
		return nil, err
	}
	next, err := s.policy.checkTransition(quotationID, status, ActionApprove, actor)
	if err != nil {
		return nil, err
	}

	if err := guardedUpdate(ctx, tx, quotationID, status, ActionApprove, `
		UPDATE quotations SET status = $1, approved_by = $2, approved_at = NOW()
		WHERE id = $3 AND status = $4`,
		string(next), actor.UserID, quotationID, string(status),
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit approve: %w", err)
	}
	return s.GetQuotation(ctx, quotationID)
}

// Reject transitions DRAFT or SENT → REJECTED, recording the reason. The status is
// checked before the reason.
func (s *quotationService) Reject(ctx context.Context, quotationID int, actor Actor, reason string) (*Quotation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	status, err := lockQuotation(ctx, tx, quotationID)
	if err != nil {
		return nil, err
	}
	next, err := s.policy.checkTransition(quotationID, status, ActionReject, actor)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationErrorf("a rejection reason is required")
	}

	if err := guardedUpdate(ctx, tx, quotationID, status, ActionReject, `
		UPDATE quotations
		SET status = $1, rejected_by = $2, rejected_at = NOW(), rejection_reason = $3
		WHERE id = $4 AND status = $5`,
		string(next), actor.UserID, reason, quotationID, string(status),
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reject: %w", err)
	}
	return s.GetQuotation(ctx, quotationID)
}

// Convert creates the project and its subgroups and marks the quotation CONVERTED,
// all in one transaction. The status is checked before the project input is validated;
// any failure after validation rolls everything back.
func (s *quotationService) Convert(ctx context.Context, quotationID int, actor Actor, input ConvertInput) (*ConversionResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	var clientID int
	var total decimal.Decimal
	if err := tx.QueryRow(ctx,
		"SELECT status, client_id, total_amount FROM quotations WHERE id = $1 FOR UPDATE",
		quotationID,
	).Scan(&status, &clientID, &total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("quotation %d", quotationID)
		}
		return nil, fmt.Errorf("fetch quotation %d: %w", quotationID, err)
	}

	next, err := s.policy.checkTransition(quotationID, QuotationStatus(status), ActionConvert, actor)
	if err != nil {
		return nil, err
	}

	input.ProjectName = strings.TrimSpace(input.ProjectName)
	if input.ProjectName == "" {
		return nil, validationErrorf("project name is required")
	}
	pt, err := ParseProjectType(string(input.ProjectType))
	if err != nil {
		return nil, err
	}
	if err := validateSubGroupSeeds(input.SubGroups); err != nil {
		return nil, err
	}

	projectID, err := insertProjectTx(ctx, tx, ProjectInput{
		Name:        input.ProjectName,
		ClientID:    clientID,
		Type:        pt,
		StartDate:   input.StartDate,
		PlannedCost: total,
		SubGroups:   input.SubGroups,
	}, &quotationID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: convert quotation %d: %w", ErrAtomicity, quotationID, err)
	}

	if err := guardedUpdate(ctx, tx, quotationID, QuotationStatus(status), ActionConvert,
		"UPDATE quotations SET status = $1 WHERE id = $2 AND status = $3",
		string(next), quotationID, status,
	); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrAtomicity, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit conversion of quotation %d: %w", ErrAtomicity, quotationID, err)
	}

	q, err := s.GetQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	p, err := getProject(ctx, s.pool, projectID)
	if err != nil {
		return nil, err
	}

	if input.Notify && s.notifier != nil {
		if err := s.notifier.ProjectCreated(ctx, q, p, input.Recipients); err != nil {
			s.log.Warn("project created notification failed",
				zap.Int("quotation_id", quotationID), zap.Int("project_id", projectID), zap.Error(err))
		}
	}

	return &ConversionResult{Quotation: q, Project: p}, nil
}

// GetQuotation returns a quotation with its client name, project link and lines.
func (s *quotationService) GetQuotation(ctx context.Context, quotationID int) (*Quotation, error) {
	q := &Quotation{}
	var status string
	if err := s.pool.QueryRow(ctx, quotationSelect+" WHERE q.id = $1", quotationID).Scan(quotationScanArgs(q, &status)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("quotation %d", quotationID)
		}
		return nil, fmt.Errorf("get quotation %d: %w", quotationID, err)
	}
	q.Status = QuotationStatus(status)

	lines, err := fetchLines(ctx, s.pool, quotationID)
	if err != nil {
		return nil, err
	}
	q.Lines = lines
	return q, nil
}

// ListQuotations returns quotation headers, newest first. Lines are not loaded.
func (s *quotationService) ListQuotations(ctx context.Context, status *QuotationStatus) ([]Quotation, error) {
	query := quotationSelect
	var args []any
	if status != nil {
		if _, err := ParseQuotationStatus(string(*status)); err != nil {
			return nil, err
		}
		query += " WHERE q.status = $1"
		args = append(args, string(*status))
	}
	query += " ORDER BY q.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	quotations := []Quotation{}
	for rows.Next() {
		var q Quotation
		var st string
		if err := rows.Scan(quotationScanArgs(&q, &st)...); err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		q.Status = QuotationStatus(st)
		quotations = append(quotations, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quotations: %w", err)
	}
	return quotations, nil
}

const quotationSelect = `
	SELECT q.id, q.quotation_number, q.client_id, c.name, q.inquiry_id, q.prepared_by, q.validity_days,
	       q.discount, q.vat_percent, q.notes, q.status, q.subtotal, q.vat_amount, q.total_amount,
	       q.sent_by, q.sent_at, q.approved_by, q.approved_at,
	       q.rejected_by, q.rejected_at, q.rejection_reason, p.id, q.created_at
	FROM quotations q
	JOIN clients c ON c.id = q.client_id
	LEFT JOIN projects p ON p.originating_quotation_id = q.id`

func quotationScanArgs(q *Quotation, status *string) []any {
	return []any{
		&q.ID, &q.Number, &q.ClientID, &q.ClientName, &q.InquiryID, &q.PreparedBy, &q.ValidityDays,
		&q.Discount, &q.VATPercent, &q.Notes, status, &q.Subtotal, &q.VATAmount, &q.TotalAmount,
		&q.SentBy, &q.SentAt, &q.ApprovedBy, &q.ApprovedAt,
		&q.RejectedBy, &q.RejectedAt, &q.RejectionReason, &q.ProjectID, &q.CreatedAt,
	}
}

func fetchLines(ctx context.Context, q pgxQuerier, quotationID int) ([]QuotationLine, error) {
	rows, err := q.Query(ctx, `
		SELECT id, quotation_id, line_number, item_name, width, height, quantity, area_sqm,
		       area_derived, running_meter, unit_rate, system_type, labour_cost, overheads, remarks, line_total
		FROM quotation_lines
		WHERE quotation_id = $1
		ORDER BY line_number`,
		quotationID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch lines for quotation %d: %w", quotationID, err)
	}
	defer rows.Close()

	lines := []QuotationLine{}
	for rows.Next() {
		var l QuotationLine
		var st string
		if err := rows.Scan(
			&l.ID, &l.QuotationID, &l.LineNumber, &l.ItemName, &l.Width, &l.Height, &l.Quantity,
			&l.AreaSqm, &l.AreaDerived, &l.RunningMeter, &l.UnitRate, &st, &l.LabourCost, &l.Overheads,
			&l.Remarks, &l.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		l.SystemType = SystemType(st)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// lockQuotation takes a row lock and returns the current status.
func lockQuotation(ctx context.Context, tx pgx.Tx, quotationID int) (QuotationStatus, error) {
	var status string
	if err := tx.QueryRow(ctx,
		"SELECT status FROM quotations WHERE id = $1 FOR UPDATE", quotationID,
	).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", notFoundf("quotation %d", quotationID)
		}
		return "", fmt.Errorf("lock quotation %d: %w", quotationID, err)
	}
	return QuotationStatus(status), nil
}

// guardedUpdate runs a status-guarded UPDATE. No affected row means the status moved
// since it was read.
func guardedUpdate(ctx context.Context, tx pgx.Tx, quotationID int, from QuotationStatus, action QuotationAction, sql string, args ...any) error {
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s quotation %d: %w", action, quotationID, err)
	}
	if tag.RowsAffected() == 0 {
		return &InvalidTransitionError{Entity: "quotation", ID: quotationID, From: string(from), Action: string(action)}
	}
	return nil
}

func requireEditable(quotationID int, status QuotationStatus) error {
	if !CanEditLines(status) {
		return &InvalidTransitionError{Entity: "quotation", ID: quotationID, From: string(status), Action: "be edited"}
	}
	return nil
}

func insertLine(ctx context.Context, tx pgx.Tx, quotationID, lineNo int, line LineInput) error {
	in, price, st := priceForStorage(line)
	if _, err := tx.Exec(ctx, `
		INSERT INTO quotation_lines (quotation_id, line_number, item_name, width, height, quantity,
		                             area_sqm, area_derived, running_meter, unit_rate, system_type,
		                             labour_cost, overheads, remarks, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		quotationID, lineNo, in.ItemName, in.Width, in.Height, normalizeQuantity(in.Quantity),
		price.AreaSqm, price.Basis == BasisDimensions, in.RunningMeter, in.UnitRate, string(st),
		in.LabourCost, in.Overheads, in.Remarks, price.LineTotal,
	); err != nil {
		return fmt.Errorf("insert line %d: %w", lineNo, err)
	}
	return nil
}

// priceForStorage returns the inputs exactly as they will be stored, with their price.
func priceForStorage(line LineInput) (LineInput, LinePrice, SystemType) {
	in := line.normalized()
	st, _ := ParseSystemType(string(in.SystemType))
	return in, PriceLine(in), st
}

// recalcTotals recomputes and stores the cached subtotal, VAT amount and total.
func recalcTotals(ctx context.Context, tx pgx.Tx, quotationID int) error {
	var discount, vat decimal.Decimal
	if err := tx.QueryRow(ctx,
		"SELECT discount, vat_percent FROM quotations WHERE id = $1", quotationID,
	).Scan(&discount, &vat); err != nil {
		return fmt.Errorf("fetch quotation %d header: %w", quotationID, err)
	}

	rows, err := tx.Query(ctx,
		"SELECT line_total FROM quotation_lines WHERE quotation_id = $1 ORDER BY line_number",
		quotationID,
	)
	if err != nil {
		return fmt.Errorf("fetch line totals: %w", err)
	}
	var lineTotals []decimal.Decimal
	for rows.Next() {
		var lt decimal.Decimal
		if err := rows.Scan(&lt); err != nil {
			rows.Close()
			return fmt.Errorf("scan line total: %w", err)
		}
		lineTotals = append(lineTotals, lt)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate line totals: %w", err)
	}

	t := ComputeTotals(lineTotals, discount, vat)
	if _, err := tx.Exec(ctx, `
		UPDATE quotations SET subtotal = $1, vat_amount = $2, total_amount = $3
		WHERE id = $4`,
		t.Subtotal, t.VATAmount, t.Total, quotationID,
	); err != nil {
		return fmt.Errorf("update quotation %d totals: %w", quotationID, err)
	}
	return nil
}
