package application

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/villarosal/service-payment/internal/adapter"
	"github.com/villarosal/service-payment/internal/config"
	"github.com/villarosal/service-payment/internal/domain"
	bookingDomain "github.com/villarosal/service-payment/internal/domain/booking"
	roomDomain "github.com/villarosal/service-payment/internal/domain/room"
	"github.com/villarosal/service-payment/internal/invoice"
	"github.com/villarosal/service-payment/internal/mailer"
	"go.uber.org/zap"
)

// ReceiptService produces and delivers the post-payment artifacts: the
// invoice PDF and the receipt email that carries it.
type ReceiptService struct {
	provider       adapter.XenditAdapter
	renderer       invoice.Renderer
	docs           invoice.DocumentStore
	mail           mailer.Mailer
	business       config.BusinessConfig
	checkoutURLFmt string
	displayLoc     *time.Location
	logger         *zap.Logger
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(
	provider adapter.XenditAdapter,
	renderer invoice.Renderer,
	docs invoice.DocumentStore,
	mail mailer.Mailer,
	business config.BusinessConfig,
	checkoutURLFmt string,
	displayLoc *time.Location,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		provider:       provider,
		renderer:       renderer,
		docs:           docs,
		mail:           mail,
		business:       business,
		checkoutURLFmt: checkoutURLFmt,
		displayLoc:     displayLoc,
		logger:         logger,
	}
}

// SendReceipt runs once per booking, right after its first paid transition.
// The payment record is re-fetched from the provider so the invoice carries
// the settled amount and timestamp rather than whatever the webhook body
// claimed. Every failure before the SMTP handoff aborts the request; a
// transport failure after that point is logged and swallowed, because the
// state transition has already committed.
func (s *ReceiptService) SendReceipt(ctx context.Context, b *bookingDomain.Booking, rm *roomDomain.Room, invoiceID, method string) error {
	if _, err := mail.ParseAddress(b.Email()); err != nil {
		return domain.NewError(domain.CodeInvalidRecipient, "Invalid or missing booking email")
	}

	pp, err := s.provider.LatestPaymentForBooking(ctx, b.ID())
	if err != nil {
		return fmt.Errorf("payment read-back failed: %w", err)
	}
	if pp == nil {
		return domain.NewError(domain.CodePaymentNotFound, "Payment not found")
	}

	if b.BookingCode() == "" {
		return domain.NewError(domain.CodeMissingBookingCode, "Missing booking_code")
	}

	data, err := invoice.BuildData(s.business, b, rm, pp, s.displayLoc, time.Now())
	if err != nil {
		return domain.WrapError(domain.CodeRenderFailure, "Failed to generate PDF", err)
	}

	pdf, err := s.renderer.Render(ctx, data)
	if err != nil {
		return domain.WrapError(domain.CodeRenderFailure, "Failed to generate PDF", err)
	}

	path, err := s.docs.Save(ctx, b.BookingCode(), pdf)
	if err != nil {
		return fmt.Errorf("failed to store invoice: %w", err)
	}
	s.logger.Info("invoice stored",
		zap.String("booking_code", b.BookingCode()),
		zap.String("path", path),
	)

	roomName := "Room"
	if rm != nil {
		roomName = rm.Name()
	}

	receipt := mailer.Receipt{
		To:            b.Email(),
		ToName:        b.FullName(),
		RoomName:      roomName,
		CheckIn:       invoice.FormatCheckIn(b),
		CheckOut:      b.CheckOutDate().Format("January 2, 2006"),
		Adults:        b.Adults(),
		Children:      b.Children(),
		BookingCode:   b.BookingCode(),
		AmountPaid:    invoice.FormatCents(pp.AmountCents()),
		InvoiceURL:    fmt.Sprintf(s.checkoutURLFmt, pp.InvoiceID),
		PaymentMethod: displayMethod(method),
		ConfirmURL:    s.confirmURL(b),
		BusinessName:  s.business.Name,
		SupportEmail:  s.business.Email,
		PDF:           pdf,
		PDFName:       fmt.Sprintf("booking_invoice_%s.pdf", b.BookingCode()),
	}

	if err := s.mail.SendReceipt(ctx, receipt); err != nil {
		// The provider already got its confirmation; re-delivery would
		// double-confirm, so the lost email is recorded, not escalated.
		s.logger.Error("receipt delivery failed",
			zap.Int64("booking_id", b.ID()),
			zap.String("email", b.Email()),
			zap.Error(err),
		)
	}
	return nil
}

func (s *ReceiptService) confirmURL(b *bookingDomain.Booking) string {
	if s.business.ConfirmURLBase == "" || b.ConfirmationToken() == "" {
		return ""
	}
	return s.business.ConfirmURLBase + "?token=" + b.ConfirmationToken()
}

// displayMethod upper-cases the first letter of the provider payment
// channel for the email body.
func displayMethod(method string) string {
	if method == "" {
		return "Unknown"
	}
	return strings.ToUpper(method[:1]) + method[1:]
}
