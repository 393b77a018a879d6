package repository

import (
	"context"
	"errors"
	"time"

	"github.com/villarosal/service-payment/internal/domain"
	bookingDomain "github.com/villarosal/service-payment/internal/domain/booking"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingModel is the GORM persistence model for the bookings table.
type BookingModel struct {
	BookingID         int64     `gorm:"column:booking_id;primaryKey;autoIncrement"`
	RoomID            int64     `gorm:"column:room_id;not null;index"`
	FullName          string    `gorm:"column:full_name;type:varchar(255);not null"`
	Email             string    `gorm:"column:email;type:varchar(255);not null"`
	ContactNumber     string    `gorm:"column:contact_number;type:varchar(50)"`
	CheckInDate       time.Time `gorm:"column:check_in_date;type:date;not null"`
	CheckInTime       string    `gorm:"column:check_in_time;type:varchar(20)"`
	CheckOutDate      time.Time `gorm:"column:check_out_date;type:date;not null"`
	Adults            int       `gorm:"column:adults;not null;default:1"`
	Children          int       `gorm:"column:children;not null;default:0"`
	BookingCode       string    `gorm:"column:booking_code;type:varchar(50);uniqueIndex"`
	ConfirmationToken string    `gorm:"column:confirmation_token;type:varchar(100)"`
	BookingStatus     string    `gorm:"column:booking_status;type:varchar(20);not null;default:'pending'"`
	IsConfirmed       bool      `gorm:"column:is_confirmed;not null;default:false"`
}

// TableName specifies the table name for GORM.
func (BookingModel) TableName() string {
	return "bookings"
}

// BookingRepositoryImpl is the GORM-based implementation of BookingRepository.
type BookingRepositoryImpl struct {
	db *gorm.DB
}

// NewBookingRepository creates a new GORM-based booking repository.
func NewBookingRepository(db *gorm.DB) *BookingRepositoryImpl {
	return &BookingRepositoryImpl{db: db}
}

// FindByID retrieves a booking by its unique ID.
func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := dbFrom(ctx, r.db).Where("booking_id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.CodeBookingNotFound, "Booking not found")
		}
		return nil, err
	}
	return bookingToDomain(&model), nil
}

// FindByIDForUpdate retrieves a booking with a FOR UPDATE row lock. Must be
// called inside TxManager.RunInTx so the lock lives until commit.
func (r *BookingRepositoryImpl) FindByIDForUpdate(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := dbFrom(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("booking_id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.CodeBookingNotFound, "Booking not found")
		}
		return nil, err
	}
	return bookingToDomain(&model), nil
}

// Update persists the booking status and confirmation flag.
func (r *BookingRepositoryImpl) Update(ctx context.Context, b *bookingDomain.Booking) error {
	return dbFrom(ctx, r.db).
		Model(&BookingModel{}).
		Where("booking_id = ?", b.ID()).
		Updates(map[string]interface{}{
			"booking_status": string(b.Status()),
			"is_confirmed":   b.IsConfirmed(),
		}).Error
}

// bookingToDomain maps a BookingModel to the domain Booking aggregate.
func bookingToDomain(model *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstitute(
		model.BookingID,
		model.RoomID,
		model.FullName,
		model.Email,
		model.ContactNumber,
		model.CheckInDate,
		model.CheckInTime,
		model.CheckOutDate,
		model.Adults,
		model.Children,
		model.BookingCode,
		model.ConfirmationToken,
		bookingDomain.BookingStatus(model.BookingStatus),
		model.IsConfirmed,
	)
}
