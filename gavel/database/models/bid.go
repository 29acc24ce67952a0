package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Bid is an append-only audit record. Never updated or deleted.
type Bid struct {
	bun.BaseModel `bun:"table:bids,alias:b"`

	ID       int64           `bun:"id,pk,autoincrement"`
	RoomID   uuid.UUID       `bun:"room_id,notnull,type:uuid"`
	PlayerID uuid.UUID       `bun:"player_id,notnull,type:uuid"`
	TeamID   uuid.UUID       `bun:"team_id,notnull,type:uuid"`
	Amount   decimal.Decimal `bun:"amount,notnull,type:numeric(12,2)"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
