// Package notify delivers quotation notifications by email.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/domodwyer/mailyak/v3"

	"fitout-erp/internal/config"
	"fitout-erp/internal/core"
	"fitout-erp/internal/export"
)

type message struct {
	to         []string
	subject    string
	body       string
	attachment *core.Attachment
}

var _ core.Notifier = (*Mailer)(nil)

// Mailer implements core.Notifier over SMTP.
type Mailer struct {
	addr   string
	from   string
	auth   smtp.Auth
	issuer string

	render func(q *core.Quotation, issuer string) ([]byte, error)
	send   func(m message) error
}

// NewMailer builds a Mailer for cfg. issuer signs the messages and heads the PDF.
func NewMailer(cfg config.SMTPConfig, issuer string) *Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	m := &Mailer{
		addr:   cfg.Addr(),
		from:   cfg.From,
		auth:   auth,
		issuer: issuer,
		render: export.QuotationPDF,
	}
	m.send = m.deliver
	return m
}

// QuotationSent mails the quotation to recipients. Without an attachment the summary
// PDF is rendered and attached.
func (m *Mailer) QuotationSent(ctx context.Context, q *core.Quotation, recipients []string, attachment *core.Attachment) error {
	to := cleanRecipients(recipients)
	if len(to) == 0 {
		return fmt.Errorf("quotation %d: no recipients", q.ID)
	}

	if attachment == nil {
		pdf, err := m.render(q, m.issuer)
		if err != nil {
			return fmt.Errorf("render quotation %d: %w", q.ID, err)
		}
		attachment = &core.Attachment{
			Filename: fmt.Sprintf("quotation-%d.pdf", q.ID),
			MimeType: "application/pdf",
			Data:     pdf,
		}
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nPlease find attached quotation %s for a total of %s, valid for %d days.\n\nRegards,\n%s\n",
		q.ClientName, reference(q), q.TotalAmount.StringFixed(2), q.ValidityDays, m.issuer,
	)
	return m.send(message{
		to:         to,
		subject:    fmt.Sprintf("Quotation %s from %s", reference(q), m.issuer),
		body:       body,
		attachment: attachment,
	})
}

// ProjectCreated tells recipients which project an approved quotation became.
func (m *Mailer) ProjectCreated(ctx context.Context, q *core.Quotation, p *core.Project, recipients []string) error {
	to := cleanRecipients(recipients)
	if len(to) == 0 {
		return fmt.Errorf("project %d: no recipients", p.ID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Quotation %s for %s has been converted into project %q (#%d).\n", reference(q), q.ClientName, p.Name, p.ID)
	fmt.Fprintf(&b, "Planned cost: %s\n", p.PlannedCost.StringFixed(2))
	if len(p.SubGroups) > 0 {
		b.WriteString("\nSubgroups:\n")
		for _, sg := range p.SubGroups {
			fmt.Fprintf(&b, "  - %s (planned quantity %s)\n", sg.Name, sg.PlannedQuantity.String())
		}
	}

	return m.send(message{
		to:      to,
		subject: fmt.Sprintf("Project created: %s", p.Name),
		body:    b.String(),
	})
}

// reference is the quotation number, or #<id> for quotations saved before numbering.
func reference(q *core.Quotation) string {
	if q.Number != "" {
		return q.Number
	}
	return fmt.Sprintf("#%d", q.ID)
}

func (m *Mailer) deliver(msg message) error {
	mail := mailyak.New(m.addr, m.auth)
	mail.To(msg.to...)
	mail.From(m.from)
	mail.FromName(m.issuer)
	mail.Subject(msg.subject)
	mail.Plain().Set(msg.body)
	if a := msg.attachment; a != nil {
		mail.AttachWithMimeType(a.Filename, bytes.NewReader(a.Data), a.MimeType)
	}
	if err := mail.Send(); err != nil {
		return fmt.Errorf("send %q: %w", msg.subject, err)
	}
	return nil
}

func cleanRecipients(in []string) []string {
	var out []string
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
