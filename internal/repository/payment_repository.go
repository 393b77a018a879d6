package repository

import (
	"context"
	"errors"
	"time"

	"github.com/villarosal/service-payment/internal/domain"
	paymentDomain "github.com/villarosal/service-payment/internal/domain/payment"
	"gorm.io/gorm"
)

// PaymentModel is the GORM persistence model for the payments table.
type PaymentModel struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	BookingID       int64      `gorm:"column:booking_id;not null;uniqueIndex:idx_booking_invoice"`
	XenditInvoiceID string     `gorm:"column:xendit_invoice_id;type:varchar(100);not null;uniqueIndex:idx_booking_invoice"`
	AmountCents     int64      `gorm:"column:amount_cents;not null"`
	Status          string     `gorm:"column:status;type:varchar(20);not null;default:'pending'"`
	PaymentMethod   string     `gorm:"column:payment_method;type:varchar(50)"`
	PaidAt          *time.Time `gorm:"column:paid_at;type:timestamptz"`
	CreatedAt       time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}

// PaymentRepositoryImpl is the GORM-based implementation of PaymentRepository.
type PaymentRepositoryImpl struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new GORM-based payment repository.
func NewPaymentRepository(db *gorm.DB) *PaymentRepositoryImpl {
	return &PaymentRepositoryImpl{db: db}
}

// FindByBookingAndInvoice retrieves the payment for the given booking and
// external invoice id.
func (r *PaymentRepositoryImpl) FindByBookingAndInvoice(ctx context.Context, bookingID int64, invoiceID string) (*paymentDomain.Payment, error) {
	var model PaymentModel
	err := dbFrom(ctx, r.db).
		Where("booking_id = ? AND xendit_invoice_id = ?", bookingID, invoiceID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.CodePaymentNotFound, "Payment not found")
		}
		return nil, err
	}
	return paymentToDomain(&model), nil
}

// Update persists the payment status, method and paid timestamp.
func (r *PaymentRepositoryImpl) Update(ctx context.Context, p *paymentDomain.Payment) error {
	updates := map[string]interface{}{
		"status": string(p.Status()),
	}
	if p.PaymentMethod() != "" {
		updates["payment_method"] = p.PaymentMethod()
	}
	if p.PaidAt() != nil {
		updates["paid_at"] = p.PaidAt()
	}

	return dbFrom(ctx, r.db).
		Model(&PaymentModel{}).
		Where("xendit_invoice_id = ?", p.InvoiceID()).
		Updates(updates).Error
}

// paymentToDomain maps a PaymentModel to the domain Payment aggregate.
func paymentToDomain(model *PaymentModel) *paymentDomain.Payment {
	return paymentDomain.Reconstitute(
		model.ID,
		model.BookingID,
		model.XenditInvoiceID,
		model.AmountCents,
		paymentDomain.Status(model.Status),
		model.PaymentMethod,
		model.PaidAt,
		model.CreatedAt,
	)
}
