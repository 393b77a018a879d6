package invoice

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/villarosal/service-payment/internal/adapter"
	"github.com/villarosal/service-payment/internal/config"
	bookingDomain "github.com/villarosal/service-payment/internal/domain/booking"
	roomDomain "github.com/villarosal/service-payment/internal/domain/room"
)

// Data carries every field the invoice template needs, fully formatted.
// Building it is a pure function of booking, room, the re-fetched provider
// payment and the business identity; the renderer has no further logic.
type Data struct {
	BusinessName    string
	BusinessAddress string
	BusinessEmail   string
	BusinessPhone   string
	LogoURL         string

	InvoiceNumber string
	InvoiceDate   string
	DueDate       string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	RoomName  string
	CheckIn   string
	CheckOut  string
	Qty       int
	BasePrice string
	LineTotal string
	Fee       string
	Amount    string

	PaymentMethod string
	Status        string
	CreatedAt     string

	QRImage template.URL
}

// qrPayload is what the front desk scans off a printed invoice.
type qrPayload struct {
	BookingCode string `json:"booking_code"`
	InvoiceID   string `json:"invoice_id"`
}

// BuildData assembles invoice data. The room may be nil; defaults are used
// so a missing reference row never blocks the receipt.
func BuildData(
	biz config.BusinessConfig,
	b *bookingDomain.Booking,
	rm *roomDomain.Room,
	pp *adapter.ProviderPayment,
	displayLoc *time.Location,
	now time.Time,
) (Data, error) {
	roomName := "Room"
	var priceCents int64
	if rm != nil {
		roomName = rm.Name()
		priceCents = rm.PriceCents()
	}

	qty := b.Nights()
	amountCents := pp.AmountCents()
	feeCents := amountCents - priceCents*int64(qty)

	method := pp.Channel
	if method == "" {
		method = "xendit"
	}
	status := pp.Status
	if status == "" {
		status = "pending"
	}

	qrJSON, err := json.Marshal(qrPayload{
		BookingCode: b.BookingCode(),
		InvoiceID:   pp.InvoiceID,
	})
	if err != nil {
		return Data{}, fmt.Errorf("failed to encode qr payload: %w", err)
	}
	qrImage, err := qrImageURI(string(qrJSON))
	if err != nil {
		return Data{}, err
	}

	return Data{
		BusinessName:    biz.Name,
		BusinessAddress: biz.Address,
		BusinessEmail:   biz.Email,
		BusinessPhone:   biz.Phone,
		LogoURL:         biz.LogoURL,
		InvoiceNumber:   pp.InvoiceID,
		InvoiceDate:     now.Format("January 2, 2006"),
		DueDate:         now.AddDate(0, 0, 1).Format("January 2, 2006"),
		CustomerName:    b.FullName(),
		CustomerEmail:   b.Email(),
		CustomerPhone:   b.ContactNumber(),
		RoomName:        roomName,
		CheckIn:         FormatCheckIn(b),
		CheckOut:        b.CheckOutDate().Format("January 2, 2006"),
		Qty:             qty,
		BasePrice:       FormatCents(priceCents),
		LineTotal:       FormatCents(priceCents * int64(qty)),
		Fee:             FormatCents(feeCents),
		Amount:          FormatCents(amountCents),
		PaymentMethod:   method,
		Status:          strings.ToLower(status),
		CreatedAt:       pp.Created.UTC().In(displayLoc).Format("January 2, 2006 at 3:04 PM"),
		QRImage:         qrImage,
	}, nil
}

// qrImageURI renders the payload to a 200px QR PNG embedded as a data URI,
// so the PDF renderer never needs network access.
func qrImageURI(payload string) (template.URL, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, 200)
	if err != nil {
		return "", fmt.Errorf("failed to generate qr code: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

// FormatCheckIn renders the check-in date plus the stored check-in time
// string, e.g. "June 5, 2026 @ 2:00 PM".
func FormatCheckIn(b *bookingDomain.Booking) string {
	date := b.CheckInDate().Format("January 2, 2006")
	if t := checkInClock(b.CheckInTime()); t != "" {
		return date + " @ " + t
	}
	return date
}

// checkInClock parses a stored "15:04" or "15:04:05" time-of-day string into
// a 12-hour display form. Unparseable values pass through untouched.
func checkInClock(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("3:04 PM")
		}
	}
	return raw
}

// FormatCents renders centavos as a two-decimal amount with thousands
// separators, e.g. 1234550 -> "12,345.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	return fmt.Sprintf("%s%s.%02d", sign, strings.Join(parts, ","), frac)
}
