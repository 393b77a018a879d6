package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/villarosal/service-payment/internal/config"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

//go:embed templates/receipt.html.tmpl
var templateFS embed.FS

// Receipt holds everything needed to compose the payment confirmation email.
type Receipt struct {
	To     string
	ToName string

	RoomName      string
	CheckIn       string
	CheckOut      string
	Adults        int
	Children      int
	BookingCode   string
	AmountPaid    string
	InvoiceURL    string
	PaymentMethod string
	ConfirmURL    string

	BusinessName string
	SupportEmail string

	PDF     []byte
	PDFName string
}

// Mailer delivers receipt emails. Delivery is best-effort from the webhook's
// point of view; implementations return transport errors and the caller
// decides whether to escalate.
type Mailer interface {
	SendReceipt(ctx context.Context, r Receipt) error
}

// SMTPMailer sends receipts over SMTP with the invoice PDF attached.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	fromAddr string
	fromName string
	tmpl     *template.Template
	logger   *zap.Logger
}

// NewSMTPMailer creates an SMTPMailer from mail configuration.
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) (*SMTPMailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/receipt.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt template: %w", err)
	}
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		fromAddr: cfg.FromAddr,
		fromName: cfg.FromName,
		tmpl:     tmpl,
		logger:   logger,
	}, nil
}

// SendReceipt composes and sends the receipt email.
func (m *SMTPMailer) SendReceipt(ctx context.Context, r Receipt) error {
	body, err := m.buildBody(r)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromAddr, m.fromName)
	msg.SetAddressHeader("To", r.To, r.ToName)
	msg.SetHeader("Subject", "Booking Payment Receipt - "+r.BookingCode)
	msg.SetBody("text/html", body)

	if len(r.PDF) > 0 {
		msg.Attach(r.PDFName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(r.PDF)
			return err
		}))
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}

	m.logger.Info("receipt email sent",
		zap.String("to", r.To),
		zap.String("booking_code", r.BookingCode),
	)
	return nil
}

// buildBody renders the HTML receipt body.
func (m *SMTPMailer) buildBody(r Receipt) (string, error) {
	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("failed to render receipt body: %w", err)
	}
	return buf.String(), nil
}
