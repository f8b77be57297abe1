package core

import "context"

// Notifier delivers best-effort messages about quotation transitions.
// Failures are logged by the caller and never undo a committed transition.
type Notifier interface {
	// QuotationSent tells the recipients that q was sent, attaching the document when given.
	QuotationSent(ctx context.Context, q *Quotation, recipients []string, attachment *Attachment) error

	// ProjectCreated tells the recipients that q was converted into p.
	ProjectCreated(ctx context.Context, q *Quotation, p *Project, recipients []string) error
}
