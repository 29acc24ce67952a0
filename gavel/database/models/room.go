package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type RoomStatus string

const (
	RoomStatusWaiting   RoomStatus = "waiting"
	RoomStatusActive    RoomStatus = "active"
	RoomStatusCompleted RoomStatus = "completed"
)

// Room is one isolated auction instance. Configuration is immutable after
// creation; only Status moves waiting -> active -> completed.
type Room struct {
	bun.BaseModel `bun:"table:rooms,alias:r"`

	ID                uuid.UUID       `bun:"id,pk,type:uuid"`
	Code              string          `bun:"code,notnull,unique"`
	HostName          string          `bun:"host_name"`
	Purse             decimal.Decimal `bun:"purse,notnull,type:numeric(12,2)"`
	SquadMin          int             `bun:"squad_min,notnull"`
	SquadMax          int             `bun:"squad_max,notnull"`
	OverseasMax       int             `bun:"overseas_max,notnull"`
	NominationSeconds int             `bun:"nomination_seconds,notnull"`
	BidSeconds        int             `bun:"bid_seconds,notnull"`
	Status            RoomStatus      `bun:"status,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// BidTimer returns the per-bid clock for this room.
func (r *Room) BidTimer() time.Duration {
	return time.Duration(r.BidSeconds) * time.Second
}

// NominationTimer returns the idle-phase nomination clock for this room.
func (r *Room) NominationTimer() time.Duration {
	return time.Duration(r.NominationSeconds) * time.Second
}
