package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"fitout-erp/internal/config"
	"fitout-erp/internal/core"
)

func newTestMailer(t *testing.T) (*Mailer, *[]message) {
	t.Helper()
	m := NewMailer(config.SMTPConfig{Host: "localhost", Port: 2525, From: "sales@example.com"}, "Fit-Out Co")
	var sent []message
	m.send = func(msg message) error {
		sent = append(sent, msg)
		return nil
	}
	return m, &sent
}

func TestQuotationSent_RendersPDFWhenNoAttachment(t *testing.T) {
	m, sent := newTestMailer(t)
	var rendered int
	m.render = func(q *core.Quotation, issuer string) ([]byte, error) {
		rendered++
		return []byte("%PDF-1.3 fake"), nil
	}

	q := &core.Quotation{ID: 9, Number: "QT-2026-00009", ClientName: "Acme", TotalAmount: decimal.NewFromInt(630), ValidityDays: 30}
	if err := m.QuotationSent(context.Background(), q, []string{" client@acme.test ", ""}, nil); err != nil {
		t.Fatalf("QuotationSent: %v", err)
	}

	if rendered != 1 {
		t.Errorf("expected PDF to be rendered once, got %d", rendered)
	}
	if len(*sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(*sent))
	}
	msg := (*sent)[0]
	if len(msg.to) != 1 || msg.to[0] != "client@acme.test" {
		t.Errorf("unexpected recipients %v", msg.to)
	}
	if msg.attachment == nil || msg.attachment.Filename != "quotation-9.pdf" {
		t.Errorf("expected quotation-9.pdf attachment, got %+v", msg.attachment)
	}
	if !strings.Contains(msg.body, "630.00") {
		t.Errorf("expected total in body, got %q", msg.body)
	}
	if !strings.Contains(msg.subject, "QT-2026-00009") {
		t.Errorf("expected quotation number in subject, got %q", msg.subject)
	}
}

func TestQuotationSent_UsesSuppliedAttachment(t *testing.T) {
	m, sent := newTestMailer(t)
	m.render = func(q *core.Quotation, issuer string) ([]byte, error) {
		t.Fatal("render must not be called when an attachment is supplied")
		return nil, nil
	}

	att := &core.Attachment{Filename: "drawings.pdf", MimeType: "application/pdf", Data: []byte("x")}
	q := &core.Quotation{ID: 3, ClientName: "Acme"}
	if err := m.QuotationSent(context.Background(), q, []string{"a@b.test"}, att); err != nil {
		t.Fatalf("QuotationSent: %v", err)
	}
	if (*sent)[0].attachment != att {
		t.Error("expected supplied attachment to be sent")
	}
}

func TestQuotationSent_NoRecipients(t *testing.T) {
	m, sent := newTestMailer(t)
	err := m.QuotationSent(context.Background(), &core.Quotation{ID: 1}, []string{" "}, nil)
	if err == nil {
		t.Fatal("expected error without recipients")
	}
	if len(*sent) != 0 {
		t.Error("nothing should be sent")
	}
}

func TestQuotationSent_RenderFailure(t *testing.T) {
	m, _ := newTestMailer(t)
	boom := errors.New("boom")
	m.render = func(q *core.Quotation, issuer string) ([]byte, error) { return nil, boom }

	err := m.QuotationSent(context.Background(), &core.Quotation{ID: 1}, []string{"a@b.test"}, nil)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped render error, got %v", err)
	}
}

func TestProjectCreated(t *testing.T) {
	m, sent := newTestMailer(t)
	q := &core.Quotation{ID: 4, ClientName: "Acme"}
	p := &core.Project{
		ID: 11, Name: "Acme HQ fit-out", PlannedCost: decimal.NewFromInt(1200),
		SubGroups: []core.SubGroup{{Name: "Level 1", PlannedQuantity: decimal.NewFromInt(5)}},
	}
	if err := m.ProjectCreated(context.Background(), q, p, []string{"pm@example.com"}); err != nil {
		t.Fatalf("ProjectCreated: %v", err)
	}
	msg := (*sent)[0]
	if msg.subject != "Project created: Acme HQ fit-out" {
		t.Errorf("unexpected subject %q", msg.subject)
	}
	if !strings.Contains(msg.body, "Level 1") || !strings.Contains(msg.body, "1200.00") {
		t.Errorf("unexpected body %q", msg.body)
	}
}
