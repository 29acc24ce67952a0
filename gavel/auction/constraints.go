package auction

import (
	"github.com/shopspring/decimal"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

// CheckBid validates a prospective bid against the bidding team's budget,
// roster slots and overseas quota. Pure; both the human command path and
// the autonomous strategy call it. Checks run in a fixed order (budget,
// slots, category) and the first violated rule is returned.
func CheckBid(room *models.Room, team *models.Team, player *models.Player, amount decimal.Decimal) error {
	// A team may never bid itself below the purse floor required to fill
	// its remaining mandatory slots.
	reserve := Reserve(team.SlotsLeft - 1)
	if team.PurseLeft.Sub(amount).Cmp(reserve) < 0 {
		return newError(KindBudgetExceeded,
			"bid of %s leaves less than the %s reserve for %d remaining slots",
			amount, reserve, team.SlotsLeft-1)
	}

	if team.SlotsLeft <= 0 {
		return newError(KindSlotsExhausted, "team %s has no roster slots left", team.Name)
	}

	if player.IsOverseas && team.OverseasCount >= room.OverseasMax {
		return newError(KindCategoryQuota,
			"team %s already holds %d of %d overseas players",
			team.Name, team.OverseasCount, room.OverseasMax)
	}

	return nil
}
