package payment

import "context"

// PaymentRepository defines the persistence contract for Payment aggregates.
type PaymentRepository interface {
	// FindByBookingAndInvoice retrieves the payment identified by the
	// (booking id, external invoice id) pair.
	FindByBookingAndInvoice(ctx context.Context, bookingID int64, invoiceID string) (*Payment, error)

	// Update persists the payment status, method and paid timestamp.
	Update(ctx context.Context, p *Payment) error
}
