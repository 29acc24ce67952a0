package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// RosterEntry is the permanent proof a player was sold to a team in a room.
// Created exactly once per sold player per room, inside the finalize
// transaction, never mutated.
type RosterEntry struct {
	bun.BaseModel `bun:"table:roster,alias:re"`

	ID         int64           `bun:"id,pk,autoincrement"`
	RoomID     uuid.UUID       `bun:"room_id,notnull,type:uuid,unique:roster_room_player"`
	TeamID     uuid.UUID       `bun:"team_id,notnull,type:uuid"`
	PlayerID   uuid.UUID       `bun:"player_id,notnull,type:uuid,unique:roster_room_player"`
	Role       PlayerRole      `bun:"role,notnull"`
	IsOverseas bool            `bun:"is_overseas,notnull"`
	Price      decimal.Decimal `bun:"price,notnull,type:numeric(12,2)"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
