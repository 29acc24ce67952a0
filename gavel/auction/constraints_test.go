package auction

import (
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

func testRoom() *models.Room {
	return &models.Room{
		Purse:       d("100"),
		SquadMin:    18,
		SquadMax:    25,
		OverseasMax: 8,
	}
}

func testTeam(purseLeft string, slotsLeft, overseas int) *models.Team {
	return &models.Team{
		Name:          "Strikers",
		PurseLeft:     decimal.RequireFromString(purseLeft),
		SlotsLeft:     slotsLeft,
		OverseasCount: overseas,
	}
}

func domesticPlayer() *models.Player {
	return &models.Player{Name: "R Sharma", Role: models.RoleBatter, BasePrice: d("2.0")}
}

func overseasPlayer() *models.Player {
	return &models.Player{Name: "D Carter", Role: models.RolePacer, BasePrice: d("1.5"), IsOverseas: true}
}

func TestCheckBid_WithinBudget(t *testing.T) {
	err := CheckBid(testRoom(), testTeam("50", 10, 2), domesticPlayer(), d("10"))
	check.Nil(t, err)
}

func TestCheckBid_BudgetReserve(t *testing.T) {
	// Last slot: the full purse may be spent.
	err := CheckBid(testRoom(), testTeam("5", 1, 0), domesticPlayer(), d("5.0"))
	check.Nil(t, err)

	// Any amount over the purse breaks the bid.
	err = CheckBid(testRoom(), testTeam("5", 1, 0), domesticPlayer(), d("5.1"))
	check.True(t, IsKind(err, KindBudgetExceeded))

	// Two slots left: one reserve unit must survive the bid.
	err = CheckBid(testRoom(), testTeam("5", 2, 0), domesticPlayer(), d("4.8"))
	check.Nil(t, err)
	err = CheckBid(testRoom(), testTeam("5", 2, 0), domesticPlayer(), d("4.9"))
	check.True(t, IsKind(err, KindBudgetExceeded))
}

func TestCheckBid_SlotsExhausted(t *testing.T) {
	err := CheckBid(testRoom(), testTeam("50", 0, 0), domesticPlayer(), d("1.0"))
	// With zero slots the reserve check cannot trip first, slots must.
	check.True(t, IsKind(err, KindSlotsExhausted))
}

func TestCheckBid_OverseasQuota(t *testing.T) {
	// At the quota, overseas players are off-limits.
	err := CheckBid(testRoom(), testTeam("50", 10, 8), overseasPlayer(), d("2.0"))
	check.True(t, IsKind(err, KindCategoryQuota))

	// A domestic player is still fine.
	err = CheckBid(testRoom(), testTeam("50", 10, 8), domesticPlayer(), d("2.0"))
	check.Nil(t, err)

	// One under the quota is fine.
	err = CheckBid(testRoom(), testTeam("50", 10, 7), overseasPlayer(), d("2.0"))
	check.Nil(t, err)
}

func TestCheckBid_BudgetBeforeQuota(t *testing.T) {
	// Checks run budget first, so a broke team at the quota reports budget.
	err := CheckBid(testRoom(), testTeam("1", 10, 8), overseasPlayer(), d("2.0"))
	check.True(t, IsKind(err, KindBudgetExceeded))
}
