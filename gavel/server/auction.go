package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const recentBidLimit = 10

type nominateRequest struct {
	TeamID   uuid.UUID       `json:"team_id"`
	PlayerID uuid.UUID       `json:"player_id"`
	Price    decimal.Decimal `json:"price"`
}

type bidRequest struct {
	TeamID uuid.UUID       `json:"team_id"`
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) handleNominate(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}

	var req nominateRequest
	if err := c.BodyParser(&req); err != nil {
		return sendBadRequest(c, "invalid request body")
	}
	if req.TeamID == uuid.Nil || req.PlayerID == uuid.Nil {
		return sendBadRequest(c, "team_id and player_id are required")
	}

	result, err := s.engine.Nominate(c.Context(), roomID, req.PlayerID, req.TeamID, req.Price)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, result, "player nominated")
}

func (s *Server) handleBid(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}

	var req bidRequest
	if err := c.BodyParser(&req); err != nil {
		return sendBadRequest(c, "invalid request body")
	}
	if req.TeamID == uuid.Nil {
		return sendBadRequest(c, "team_id is required")
	}

	result, err := s.engine.Bid(c.Context(), roomID, req.TeamID, req.Amount)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, result, "bid accepted")
}

// handleFinalize lets a client prompt settlement of an expired round instead
// of waiting for the background sweep. The engine decides whether the clock
// has actually run out.
func (s *Server) handleFinalize(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}

	result, err := s.engine.ExpireAndFinalize(c.Context(), roomID)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, result, "round settled")
}

func (s *Server) handleRoomState(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}

	state, err := s.auctions.State(c.Context(), roomID)
	if err != nil {
		return sendAuctionError(c, err)
	}

	bids, err := s.auctions.RecentBids(c.Context(), roomID, recentBidLimit)
	if err != nil {
		return sendAuctionError(c, err)
	}

	return sendSuccess(c, fiber.Map{
		"state":       state,
		"recent_bids": bids,
	}, "")
}
