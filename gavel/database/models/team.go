package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Team is one seat in a room, human or autonomous. PurseLeft, SlotsLeft and
// OverseasCount are mutated only by sale finalization, never by a bid.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID            uuid.UUID       `bun:"id,pk,type:uuid"`
	RoomID        uuid.UUID       `bun:"room_id,notnull,type:uuid,unique:team_room_name"`
	Name          string          `bun:"name,notnull,unique:team_room_name"`
	Owner         string          `bun:"owner"`
	PurseLeft     decimal.Decimal `bun:"purse_left,notnull,type:numeric(12,2)"`
	SlotsLeft     int             `bun:"slots_left,notnull"`
	OverseasCount int             `bun:"overseas_count,notnull,default:0"`
	IsAgent       bool            `bun:"is_agent,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
