package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Document number prefixes.
const (
	QuotationNumberPrefix     = "QT"
	PurchaseOrderNumberPrefix = "PO"
)

// FormatDocumentNumber renders <prefix>-<year>-<seq>, e.g. PO-2026-00042.
func FormatDocumentNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}

// nextDocumentNumberTx allocates the next number for prefix in year inside tx.
// The sequence row stays locked until tx ends, so numbers are gapless and a rollback
// hands the number back.
func nextDocumentNumberTx(ctx context.Context, tx pgx.Tx, prefix string, year int) (string, error) {
	var last int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO document_sequences (type_code, year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (type_code, year)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number`,
		prefix, year,
	).Scan(&last); err != nil {
		return "", fmt.Errorf("allocate %s number: %w", prefix, err)
	}
	return FormatDocumentNumber(prefix, year, last), nil
}
