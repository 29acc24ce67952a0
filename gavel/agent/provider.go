package agent

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

type Action string

const (
	ActionSkip     Action = "skip"
	ActionNominate Action = "nominate"
	ActionBid      Action = "bid"
)

// Decision is a provider's answer for one team on one tick. Rationale is
// logged, never stored.
type Decision struct {
	Action    Action
	PlayerID  uuid.UUID
	Amount    decimal.Decimal
	Rationale string
}

// NominationContext is everything a provider may consult when the room sits
// idle and the team could bring a player to the block.
type NominationContext struct {
	Room      *models.Room
	Team      *models.Team
	Available []*models.Player
	Roster    []*models.RosterEntry
}

// BidContext is everything a provider may consult while a player is on the
// block. MinNext is the lowest amount the engine will accept.
type BidContext struct {
	Room    *models.Room
	Team    *models.Team
	Player  *models.Player
	State   *models.AuctionState
	MinNext decimal.Decimal
}

// Provider decides for autonomous teams. Implementations must be safe for
// concurrent use; the runner fans out across rooms. A provider failure is
// never fatal, the runner degrades it to a skip.
type Provider interface {
	Nominate(ctx context.Context, nc NominationContext) (Decision, error)
	Bid(ctx context.Context, bc BidContext) (Decision, error)
}

func skip(reason string) Decision {
	return Decision{Action: ActionSkip, Rationale: reason}
}
