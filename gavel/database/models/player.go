package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type PlayerRole string

const (
	RoleBatter     PlayerRole = "Batter"
	RoleAllRounder PlayerRole = "All-rounder"
	RoleKeeper     PlayerRole = "WK"
	RolePacer      PlayerRole = "Pacer"
	RoleSpinner    PlayerRole = "Spinner"
)

// Player is a static catalog entry. Never mutated after seeding.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID         uuid.UUID       `bun:"id,pk,type:uuid"`
	Name       string          `bun:"name,notnull"`
	Role       PlayerRole      `bun:"role,notnull"`
	Country    string          `bun:"country"`
	BasePrice  decimal.Decimal `bun:"base_price,notnull,type:numeric(12,2)"`
	IsOverseas bool            `bun:"is_overseas,notnull,default:false"`
	IsMarquee  bool            `bun:"is_marquee,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// UnsoldPlayer records a player that went through a bidding round in a room
// without attracting a winner. Append-only.
type UnsoldPlayer struct {
	bun.BaseModel `bun:"table:unsold_players,alias:up"`

	ID       int64     `bun:"id,pk,autoincrement"`
	RoomID   uuid.UUID `bun:"room_id,notnull,type:uuid,unique:unsold_room_player"`
	PlayerID uuid.UUID `bun:"player_id,notnull,type:uuid,unique:unsold_room_player"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
