package room

import "context"

// Room is read-only reference data for invoice line items.
type Room struct {
	id         int64
	name       string
	priceCents int64
}

func (r *Room) ID() int64         { return r.id }
func (r *Room) Name() string      { return r.name }
func (r *Room) PriceCents() int64 { return r.priceCents }

// Reconstitute rebuilds a Room from persisted data.
func Reconstitute(id int64, name string, priceCents int64) *Room {
	return &Room{id: id, name: name, priceCents: priceCents}
}

// RoomRepository defines the read contract for rooms.
type RoomRepository interface {
	FindByID(ctx context.Context, id int64) (*Room, error)
}
