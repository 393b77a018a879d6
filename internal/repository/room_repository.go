package repository

import (
	"context"

	roomDomain "github.com/villarosal/service-payment/internal/domain/room"
	"gorm.io/gorm"
)

// RoomModel is the GORM persistence model for the rooms table.
type RoomModel struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	RoomName   string `gorm:"column:room_name;type:varchar(255);not null"`
	PriceCents int64  `gorm:"column:price_cents;not null"`
}

// TableName specifies the table name for GORM.
func (RoomModel) TableName() string {
	return "rooms"
}

// RoomRepositoryImpl is the GORM-based implementation of RoomRepository.
type RoomRepositoryImpl struct {
	db *gorm.DB
}

// NewRoomRepository creates a new GORM-based room repository.
func NewRoomRepository(db *gorm.DB) *RoomRepositoryImpl {
	return &RoomRepositoryImpl{db: db}
}

// FindByID retrieves a room by id. Callers treat failure as best-effort and
// fall back to defaults, so the raw error is returned unwrapped.
func (r *RoomRepositoryImpl) FindByID(ctx context.Context, id int64) (*roomDomain.Room, error) {
	var model RoomModel
	if err := dbFrom(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return roomDomain.Reconstitute(model.ID, model.RoomName, model.PriceCents), nil
}
