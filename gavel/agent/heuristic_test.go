package agent

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testRoom() *models.Room {
	return &models.Room{
		ID:          uuid.New(),
		Purse:       d("100"),
		SquadMin:    18,
		SquadMax:    25,
		OverseasMax: 8,
		BidSeconds:  15,
	}
}

func testTeam(room *models.Room, purseLeft string, slotsLeft int) *models.Team {
	return &models.Team{
		ID:        uuid.New(),
		RoomID:    room.ID,
		Name:      "Bot XI",
		PurseLeft: d(purseLeft),
		SlotsLeft: slotsLeft,
		IsAgent:   true,
	}
}

func testPlayer(name string, basePrice string, marquee bool) *models.Player {
	return &models.Player{
		ID:        uuid.New(),
		Name:      name,
		Role:      models.RoleBatter,
		BasePrice: d(basePrice),
		IsMarquee: marquee,
	}
}

func TestHeuristic_NominatesWhenSlotsOpen(t *testing.T) {
	h := NewHeuristic(1)
	room := testRoom()
	team := testTeam(room, "100", 25)
	player := testPlayer("V Rao", "2.0", false)

	decision, err := h.Nominate(context.Background(), NominationContext{
		Room:      room,
		Team:      team,
		Available: []*models.Player{player},
	})
	assert.Nil(t, err)

	check.Equal(t, ActionNominate, decision.Action)
	check.Equal(t, player.ID, decision.PlayerID)
	// Opening price honors the nomination floor.
	check.True(t, decision.Amount.Equal(d("2.0")))
}

func TestHeuristic_SkipsWithFullSquad(t *testing.T) {
	h := NewHeuristic(1)
	room := testRoom()
	team := testTeam(room, "100", 0)

	decision, err := h.Nominate(context.Background(), NominationContext{
		Room:      room,
		Team:      team,
		Available: []*models.Player{testPlayer("V Rao", "2.0", false)},
	})
	assert.Nil(t, err)
	check.Equal(t, ActionSkip, decision.Action)
}

func TestHeuristic_SkipsEmptyPool(t *testing.T) {
	h := NewHeuristic(1)
	room := testRoom()
	team := testTeam(room, "100", 25)

	decision, err := h.Nominate(context.Background(), NominationContext{Room: room, Team: team})
	assert.Nil(t, err)
	check.Equal(t, ActionSkip, decision.Action)
}

func TestHeuristic_PrefersMarqueePlayers(t *testing.T) {
	h := NewHeuristic(1)
	room := testRoom()
	team := testTeam(room, "100", 25)
	ordinary := testPlayer("A Khan", "1.0", false)
	marquee := testPlayer("V Rao", "1.0", true)

	decision, err := h.Nominate(context.Background(), NominationContext{
		Room:      room,
		Team:      team,
		Available: []*models.Player{ordinary, marquee},
	})
	assert.Nil(t, err)

	check.Equal(t, ActionNominate, decision.Action)
	check.Equal(t, marquee.ID, decision.PlayerID)
}

func TestHeuristic_NeverBidsWhileLeading(t *testing.T) {
	h := NewHeuristic(1)
	room := testRoom()
	team := testTeam(room, "100", 25)
	player := testPlayer("V Rao", "2.0", false)

	decision, err := h.Bid(context.Background(), BidContext{
		Room:    room,
		Team:    team,
		Player:  player,
		State:   &models.AuctionState{HighTeamID: &team.ID, HighBid: d("2.0")},
		MinNext: d("2.2"),
	})
	assert.Nil(t, err)
	check.Equal(t, ActionSkip, decision.Action)
}

func TestHeuristic_NeverBidsBeyondConstraints(t *testing.T) {
	h := NewHeuristic(1)
	room := testRoom()
	// One slot left, purse 3: a 3.2 raise is unaffordable.
	team := testTeam(room, "3", 1)
	player := testPlayer("V Rao", "2.0", false)
	rival := uuid.New()

	// The heuristic is probabilistic, so exercise it repeatedly; it must
	// never decide to bid above its means.
	for i := 0; i < 200; i++ {
		decision, err := h.Bid(context.Background(), BidContext{
			Room:    room,
			Team:    team,
			Player:  player,
			State:   &models.AuctionState{HighTeamID: &rival, HighBid: d("3.0")},
			MinNext: d("3.2"),
		})
		assert.Nil(t, err)
		check.Equal(t, ActionSkip, decision.Action)
	}
}

func TestHeuristic_BidsEventually(t *testing.T) {
	h := NewHeuristic(1)
	room := testRoom()
	team := testTeam(room, "100", 25)
	player := testPlayer("V Rao", "2.0", true)
	rival := uuid.New()

	bids := 0
	for i := 0; i < 200; i++ {
		decision, err := h.Bid(context.Background(), BidContext{
			Room:    room,
			Team:    team,
			Player:  player,
			State:   &models.AuctionState{HighTeamID: &rival, HighBid: d("2.0")},
			MinNext: d("2.2"),
		})
		assert.Nil(t, err)
		if decision.Action == ActionBid {
			bids++
			// Any bid must clear the minimum raise.
			check.True(t, decision.Amount.GreaterThanOrEqual(d("2.2")))
		}
	}
	// A keen, rich team bids most of the time.
	check.True(t, bids > 50)
}

func TestHeuristic_DeterministicUnderSeed(t *testing.T) {
	room := testRoom()
	team := testTeam(room, "100", 25)
	player := testPlayer("V Rao", "2.0", false)
	rival := uuid.New()

	run := func() []Action {
		h := NewHeuristic(42)
		actions := make([]Action, 0, 50)
		for i := 0; i < 50; i++ {
			decision, _ := h.Bid(context.Background(), BidContext{
				Room:    room,
				Team:    team,
				Player:  player,
				State:   &models.AuctionState{HighTeamID: &rival, HighBid: d("2.0")},
				MinNext: d("2.2"),
			})
			actions = append(actions, decision.Action)
		}
		return actions
	}

	check.Equal(t, run(), run())
}
