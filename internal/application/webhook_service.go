package application

import (
	"context"
	"errors"
	"time"

	bookingDomain "github.com/villarosal/service-payment/internal/domain/booking"
	paymentDomain "github.com/villarosal/service-payment/internal/domain/payment"
	roomDomain "github.com/villarosal/service-payment/internal/domain/room"
	"github.com/villarosal/service-payment/internal/events"
	"go.uber.org/zap"
)

// WebhookEvent is the validated payload of one provider callback.
type WebhookEvent struct {
	InvoiceID     string
	RawStatus     string
	BookingID     int64
	PaymentMethod string
}

// Transactor runs a function inside a single database transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReceiptSender delivers the post-confirmation invoice and receipt email.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, b *bookingDomain.Booking, rm *roomDomain.Room, invoiceID, method string) error
}

// WebhookService applies provider payment events to booking and payment
// state, and triggers the receipt pipeline on a first paid transition.
type WebhookService struct {
	bookings  bookingDomain.BookingRepository
	payments  paymentDomain.PaymentRepository
	rooms     roomDomain.RoomRepository
	tx        Transactor
	receipts  ReceiptSender
	publisher events.Publisher
	logger    *zap.Logger
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(
	bookings bookingDomain.BookingRepository,
	payments paymentDomain.PaymentRepository,
	rooms roomDomain.RoomRepository,
	tx Transactor,
	receipts ReceiptSender,
	publisher events.Publisher,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		bookings:  bookings,
		payments:  payments,
		rooms:     rooms,
		tx:        tx,
		receipts:  receipts,
		publisher: publisher,
		logger:    logger,
	}
}

// Process applies one webhook event.
//
// The payment status is always overwritten with the delivered value, so the
// row reflects the most recent event for its invoice. A paid status may
// additionally confirm the booking; an expired or failed status expires it.
// Both writes happen in one transaction with the booking row locked, so two
// concurrent deliveries of the same paid event cannot both pass the
// confirmation guard: whichever commits first wins, the other sees
// is_confirmed and only re-applies the payment status.
func (s *WebhookService) Process(ctx context.Context, ev WebhookEvent) error {
	status := paymentDomain.Normalize(ev.RawStatus)
	log := s.logger.With(
		zap.Int64("booking_id", ev.BookingID),
		zap.String("invoice_id", ev.InvoiceID),
		zap.String("status", string(status)),
	)

	var (
		bk           *bookingDomain.Booking
		confirmedNow bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		bk, err = s.bookings.FindByIDForUpdate(ctx, ev.BookingID)
		if err != nil {
			return err
		}

		pay, err := s.payments.FindByBookingAndInvoice(ctx, ev.BookingID, ev.InvoiceID)
		if err != nil {
			return err
		}

		pay.ApplyStatus(status, time.Now())
		if status == paymentDomain.StatusPaid {
			pay.RecordMethod(ev.PaymentMethod)
		}
		if err := s.payments.Update(ctx, pay); err != nil {
			return err
		}

		switch status {
		case paymentDomain.StatusPaid:
			if err := bk.Confirm(); err != nil {
				if errors.Is(err, bookingDomain.ErrAlreadyConfirmed) {
					return nil
				}
				return err
			}
			if err := s.bookings.Update(ctx, bk); err != nil {
				return err
			}
			confirmedNow = true
		case paymentDomain.StatusExpired, paymentDomain.StatusFailed:
			bk.Expire()
			if err := s.bookings.Update(ctx, bk); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishStatusChanged(ctx, ev, status, confirmedNow)

	if !confirmedNow {
		if status == paymentDomain.StatusPaid {
			log.Info("booking already confirmed, skipping receipt")
		}
		return nil
	}
	log.Info("booking confirmed")

	rm, err := s.rooms.FindByID(ctx, bk.RoomID())
	if err != nil {
		log.Warn("room lookup failed, invoice will use defaults", zap.Error(err))
		rm = nil
	}

	return s.receipts.SendReceipt(ctx, bk, rm, ev.InvoiceID, ev.PaymentMethod)
}

// publishStatusChanged emits the transition for downstream consumers.
// Broker unavailability never fails the webhook.
func (s *WebhookService) publishStatusChanged(ctx context.Context, ev WebhookEvent, status paymentDomain.Status, confirmed bool) {
	event := events.PaymentStatusChangedEvent{
		BookingID:        ev.BookingID,
		InvoiceID:        ev.InvoiceID,
		Status:           string(status),
		PaymentMethod:    ev.PaymentMethod,
		BookingConfirmed: confirmed,
		OccurredAt:       time.Now().UTC(),
	}
	if err := s.publisher.PublishStatusChanged(ctx, event); err != nil {
		s.logger.Error("failed to publish payment event",
			zap.String("invoice_id", ev.InvoiceID),
			zap.Error(err),
		)
	}
}
