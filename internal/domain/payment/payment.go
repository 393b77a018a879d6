package payment

import (
	"strings"
	"time"
)

// Status represents the provider-reported state of a payment.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusExpired Status = "expired"
	StatusFailed  Status = "failed"
)

// Normalize lower-cases a provider status string for comparison. Xendit
// delivers statuses upper-case ("PAID"); everything internal is lower-case.
func Normalize(raw string) Status {
	return Status(strings.ToLower(raw))
}

// Payment is the aggregate root for a single provider invoice attached to a
// booking. The (bookingID, invoiceID) pair is unique: webhook events for
// invoices this system never issued have no Payment row and are rejected.
type Payment struct {
	id            int64
	bookingID     int64
	invoiceID     string
	amountCents   int64
	status        Status
	paymentMethod string
	paidAt        *time.Time
	createdAt     time.Time
}

// --- Getters ---

func (p *Payment) ID() int64             { return p.id }
func (p *Payment) BookingID() int64      { return p.bookingID }
func (p *Payment) InvoiceID() string     { return p.invoiceID }
func (p *Payment) AmountCents() int64    { return p.amountCents }
func (p *Payment) Status() Status        { return p.status }
func (p *Payment) PaymentMethod() string { return p.paymentMethod }
func (p *Payment) PaidAt() *time.Time    { return p.paidAt }
func (p *Payment) CreatedAt() time.Time  { return p.createdAt }

// --- Behavior / State Transitions ---

// ApplyStatus records the latest provider-reported status. It always
// overwrites: the persisted status must reflect the most recent event for
// this invoice, so replays of the same value are observational no-ops.
// A paid status also stamps paidAt.
func (p *Payment) ApplyStatus(status Status, now time.Time) {
	p.status = status
	if status == StatusPaid {
		t := now.UTC()
		p.paidAt = &t
	}
}

// RecordMethod stores the payment channel reported by the provider on a
// paid event.
func (p *Payment) RecordMethod(method string) {
	if method != "" {
		p.paymentMethod = method
	}
}

// Reconstitute rebuilds a Payment from persisted data.
func Reconstitute(
	id, bookingID int64,
	invoiceID string,
	amountCents int64,
	status Status,
	paymentMethod string,
	paidAt *time.Time,
	createdAt time.Time,
) *Payment {
	return &Payment{
		id:            id,
		bookingID:     bookingID,
		invoiceID:     invoiceID,
		amountCents:   amountCents,
		status:        status,
		paymentMethod: paymentMethod,
		paidAt:        paidAt,
		createdAt:     createdAt,
	}
}
