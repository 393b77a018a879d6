package booking

import (
	"errors"
	"time"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusExpired   BookingStatus = "expired"
	StatusCancelled BookingStatus = "cancelled"
)

// ErrAlreadyConfirmed is returned when Confirm is called on a booking whose
// confirmation already happened. The webhook pipeline relies on this to keep
// receipt side effects single-shot under duplicate delivery.
var ErrAlreadyConfirmed = errors.New("booking already confirmed")

// Booking is the aggregate root for a guest reservation. The webhook only
// ever mutates status and the confirmation flag; everything else is read for
// the receipt and invoice.
type Booking struct {
	id                int64
	roomID            int64
	fullName          string
	email             string
	contactNumber     string
	checkInDate       time.Time
	checkInTime       string
	checkOutDate      time.Time
	adults            int
	children          int
	bookingCode       string
	confirmationToken string
	status            BookingStatus
	isConfirmed       bool
}

// --- Getters ---

func (b *Booking) ID() int64                 { return b.id }
func (b *Booking) RoomID() int64             { return b.roomID }
func (b *Booking) FullName() string          { return b.fullName }
func (b *Booking) Email() string             { return b.email }
func (b *Booking) ContactNumber() string     { return b.contactNumber }
func (b *Booking) CheckInDate() time.Time    { return b.checkInDate }
func (b *Booking) CheckInTime() string       { return b.checkInTime }
func (b *Booking) CheckOutDate() time.Time   { return b.checkOutDate }
func (b *Booking) Adults() int               { return b.adults }
func (b *Booking) Children() int             { return b.children }
func (b *Booking) BookingCode() string       { return b.bookingCode }
func (b *Booking) ConfirmationToken() string { return b.confirmationToken }
func (b *Booking) Status() BookingStatus     { return b.status }
func (b *Booking) IsConfirmed() bool         { return b.isConfirmed }

// Nights returns the length of stay used for invoice line quantity.
// Same-day stays count as one night.
func (b *Booking) Nights() int {
	n := int(b.checkOutDate.Sub(b.checkInDate).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// --- Behavior / State Transitions ---

// Confirm transitions the booking to confirmed. It fires at most once per
// booking; later calls report ErrAlreadyConfirmed.
func (b *Booking) Confirm() error {
	if b.isConfirmed {
		return ErrAlreadyConfirmed
	}
	b.status = StatusConfirmed
	b.isConfirmed = true
	return nil
}

// Expire marks the booking expired after a failed or lapsed payment. The
// confirmation flag is deliberately left untouched.
func (b *Booking) Expire() {
	b.status = StatusExpired
}

// Reconstitute rebuilds a Booking from persisted data.
func Reconstitute(
	id, roomID int64,
	fullName, email, contactNumber string,
	checkInDate time.Time,
	checkInTime string,
	checkOutDate time.Time,
	adults, children int,
	bookingCode, confirmationToken string,
	status BookingStatus,
	isConfirmed bool,
) *Booking {
	return &Booking{
		id:                id,
		roomID:            roomID,
		fullName:          fullName,
		email:             email,
		contactNumber:     contactNumber,
		checkInDate:       checkInDate,
		checkInTime:       checkInTime,
		checkOutDate:      checkOutDate,
		adults:            adults,
		children:          children,
		bookingCode:       bookingCode,
		confirmationToken: confirmationToken,
		status:            status,
		isConfirmed:       isConfirmed,
	}
}
