package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseBidding    Phase = "bidding"
	PhaseFinalizing Phase = "finalizing"
)

// AuctionState is the singleton live-auction row for a room and the sole
// source of truth for who is winning the current lot. Every mutation is a
// conditional write keyed on Version; a stale writer affects zero rows.
type AuctionState struct {
	bun.BaseModel `bun:"table:auction_states,alias:s"`

	RoomID          uuid.UUID       `bun:"room_id,pk,type:uuid"`
	Phase           Phase           `bun:"phase,notnull"`
	CurrentPlayerID *uuid.UUID      `bun:"current_player_id,type:uuid"`
	BasePrice       decimal.Decimal `bun:"base_price,type:numeric(12,2)"`
	HighBid         decimal.Decimal `bun:"high_bid,type:numeric(12,2)"`
	HighTeamID      *uuid.UUID      `bun:"high_team_id,type:uuid"`
	NominatedBy     *uuid.UUID      `bun:"nominated_by,type:uuid"`
	Deadline        *time.Time      `bun:"deadline,nullzero"`
	Version         int64           `bun:"version,notnull,default:0"`

	// Outcome of the most recently settled round, kept so a duplicate
	// finalize call can answer with the already-settled result.
	LastPlayerID *uuid.UUID      `bun:"last_player_id,type:uuid"`
	LastTeamID   *uuid.UUID      `bun:"last_team_id,type:uuid"`
	LastPrice    decimal.Decimal `bun:"last_price,type:numeric(12,2)"`
	LastSold     *bool           `bun:"last_sold"`

	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Idle reports whether no lot is live.
func (s *AuctionState) Idle() bool {
	return s.Phase == PhaseIdle
}

// Expired reports whether the bidding clock has run out as of now.
func (s *AuctionState) Expired(now time.Time) bool {
	return s.Deadline != nil && !now.Before(*s.Deadline)
}
