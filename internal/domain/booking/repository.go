package booking

import "context"

// BookingRepository defines the persistence contract for Booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique ID.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindByIDForUpdate retrieves a booking with a row lock. Only valid
	// inside a transaction; the lock is held until commit so the
	// confirmation guard cannot race with a duplicate delivery.
	FindByIDForUpdate(ctx context.Context, id int64) (*Booking, error)

	// Update persists the booking status and confirmation flag.
	Update(ctx context.Context, b *Booking) error
}
