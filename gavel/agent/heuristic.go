package agent

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/gavelhouse/gavel/gavel/auction"
	"github.com/gavelhouse/gavel/gavel/database/models"
)

// Target squad composition as a share of squad_max, used to score how badly
// the team still needs a role.
var roleTargets = map[models.PlayerRole]float64{
	models.RoleBatter:     0.35,
	models.RoleAllRounder: 0.20,
	models.RoleKeeper:     0.10,
	models.RolePacer:      0.20,
	models.RoleSpinner:    0.15,
}

const (
	marqueeBoost      = 1.5
	bidThreshold      = 0.35
	jumpBidChance     = 0.15
	premiumOpenChance = 0.25
)

// Heuristic is the built-in provider. It scores players on role need,
// budget health and price pressure, then bids probabilistically so two
// agent teams in the same room do not act in lockstep.
type Heuristic struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewHeuristic(seed int64) *Heuristic {
	return &Heuristic{rng: rand.New(rand.NewSource(seed))}
}

func (h *Heuristic) roll() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng.Float64()
}

func (h *Heuristic) Nominate(ctx context.Context, nc NominationContext) (Decision, error) {
	if nc.Team.SlotsLeft <= 0 || len(nc.Available) == 0 {
		return skip("nothing to nominate"), nil
	}

	var best *models.Player
	bestScore := 0.0
	for _, player := range nc.Available {
		price := auction.NominationFloor(player.BasePrice)
		score := h.interest(nc.Room, nc.Team, nc.Roster, player, price)
		if score > bestScore {
			best, bestScore = player, score
		}
	}
	if best == nil || bestScore < bidThreshold {
		return skip("no player worth bringing up"), nil
	}

	price := auction.NominationFloor(best.BasePrice)

	// High-interest nominations sometimes open above base to deter rivals.
	if bestScore > 1.0 && h.roll() < premiumOpenChance {
		premium := auction.NominationCeiling(best.BasePrice)
		if premium.GreaterThan(price) && auction.CheckBid(nc.Room, nc.Team, best, premium) == nil {
			price = premium
		}
	}

	if err := auction.CheckBid(nc.Room, nc.Team, best, price); err != nil {
		return skip("cannot afford opening price"), nil
	}

	return Decision{
		Action:    ActionNominate,
		PlayerID:  best.ID,
		Amount:    price,
		Rationale: fmt.Sprintf("interest %.2f for %s", bestScore, best.Name),
	}, nil
}

func (h *Heuristic) Bid(ctx context.Context, bc BidContext) (Decision, error) {
	if bc.State.HighTeamID != nil && *bc.State.HighTeamID == bc.Team.ID {
		return skip("already leading"), nil
	}

	amount := bc.MinNext
	score := h.interest(bc.Room, bc.Team, nil, bc.Player, amount)
	if score < bidThreshold {
		return skip("player below interest threshold"), nil
	}

	// Probabilistic restraint; the keener the team, the more often it raises.
	if h.roll() > score {
		return skip("holding this round"), nil
	}

	// Marquee players occasionally draw a jump bid to scare off rivals.
	if bc.Player.IsMarquee && h.roll() < jumpBidChance {
		jumped := amount.Add(auction.MinIncrement(amount))
		if auction.CheckBid(bc.Room, bc.Team, bc.Player, jumped) == nil {
			amount = jumped
		}
	}

	if err := auction.CheckBid(bc.Room, bc.Team, bc.Player, amount); err != nil {
		return skip("constraints block a raise"), nil
	}

	return Decision{
		Action:    ActionBid,
		PlayerID:  bc.Player.ID,
		Amount:    amount,
		Rationale: fmt.Sprintf("interest %.2f at %s", score, amount),
	}, nil
}

// interest multiplies independent appetite factors into a 0..~2 score.
func (h *Heuristic) interest(room *models.Room, team *models.Team, roster []*models.RosterEntry, player *models.Player, price decimal.Decimal) float64 {
	score := 1.0

	score *= roleNeedFactor(room, roster, player.Role)
	score *= budgetHealth(room, team)
	score *= pricePressure(team, price)
	score *= slotUrgency(room, team)

	if player.IsMarquee {
		score *= marqueeBoost
	}
	return score
}

func roleNeedFactor(room *models.Room, roster []*models.RosterEntry, role models.PlayerRole) float64 {
	target, ok := roleTargets[role]
	if !ok {
		return 1.0
	}
	want := target * float64(room.SquadMax)
	have := 0
	for _, entry := range roster {
		if entry.Role == role {
			have++
		}
	}
	if float64(have) >= want {
		return 0.6
	}
	return 1.0 + (want-float64(have))/want*0.5
}

// budgetHealth shrinks appetite as the purse drains.
func budgetHealth(room *models.Room, team *models.Team) float64 {
	if room.Purse.IsZero() {
		return 0
	}
	health, _ := team.PurseLeft.Div(room.Purse).Float64()
	if health < 0 {
		return 0
	}
	return 0.4 + 0.6*health
}

// pricePressure penalizes bids that are large relative to what is left.
func pricePressure(team *models.Team, price decimal.Decimal) float64 {
	if team.PurseLeft.IsZero() {
		return 0
	}
	share, _ := price.Div(team.PurseLeft).Float64()
	if share >= 1 {
		return 0
	}
	return 1.0 - share
}

// slotUrgency raises appetite when the squad is still mostly empty.
func slotUrgency(room *models.Room, team *models.Team) float64 {
	if room.SquadMax == 0 {
		return 1.0
	}
	open := float64(team.SlotsLeft) / float64(room.SquadMax)
	return 0.7 + 0.5*open
}
