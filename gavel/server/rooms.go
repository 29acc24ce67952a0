package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gavelhouse/gavel/gavel/database/models"
	"github.com/gavelhouse/gavel/gavel/database/repositories"
)

type createRoomRequest struct {
	HostName          string  `json:"host_name"`
	Purse             float64 `json:"purse"`
	SquadMin          int     `json:"squad_min"`
	SquadMax          int     `json:"squad_max"`
	OverseasMax       int     `json:"overseas_max"`
	NominationSeconds int     `json:"nomination_seconds"`
	BidSeconds        int     `json:"bid_seconds"`
}

type joinRoomRequest struct {
	Name    string `json:"name"`
	Owner   string `json:"owner"`
	IsAgent bool   `json:"is_agent"`
}

type addAgentsRequest struct {
	Count int `json:"count"`
}

func (s *Server) roomID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func (s *Server) handleCreateRoom(c *fiber.Ctx) error {
	var req createRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return sendBadRequest(c, "invalid request body")
	}

	// Unset fields fall back to the configured room defaults.
	if req.Purse <= 0 {
		req.Purse = s.defaults.DefaultPurse
	}
	if req.SquadMin <= 0 {
		req.SquadMin = s.defaults.DefaultSquadMin
	}
	if req.SquadMax <= 0 {
		req.SquadMax = s.defaults.DefaultSquadMax
	}
	if req.OverseasMax <= 0 {
		req.OverseasMax = s.defaults.DefaultOverseasMax
	}
	if req.NominationSeconds <= 0 {
		req.NominationSeconds = s.defaults.DefaultNominationSeconds
	}
	if req.BidSeconds <= 0 {
		req.BidSeconds = s.defaults.DefaultBidSeconds
	}
	if req.SquadMax < req.SquadMin {
		return sendBadRequest(c, "squad_max must be at least squad_min")
	}

	room := &models.Room{
		HostName:          req.HostName,
		Purse:             decimal.NewFromFloat(req.Purse),
		SquadMin:          req.SquadMin,
		SquadMax:          req.SquadMax,
		OverseasMax:       req.OverseasMax,
		NominationSeconds: req.NominationSeconds,
		BidSeconds:        req.BidSeconds,
		Status:            models.RoomStatusWaiting,
	}
	if err := s.rooms.Create(c.Context(), room); err != nil {
		return sendAuctionError(c, err)
	}
	return sendCreated(c, room, "room created")
}

func (s *Server) handleRoomByCode(c *fiber.Ctx) error {
	room, err := s.rooms.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		if repositories.IsNotFound(err) {
			return sendError(c, fiber.StatusNotFound, "ROOM_NOT_FOUND", "no room with that code")
		}
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, room, "")
}

func (s *Server) handleJoinRoom(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}

	var req joinRoomRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return sendBadRequest(c, "team name is required")
	}

	room, err := s.rooms.GetByID(c.Context(), roomID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return sendError(c, fiber.StatusNotFound, "ROOM_NOT_FOUND", "room not found")
		}
		return sendAuctionError(c, err)
	}
	if room.Status != models.RoomStatusWaiting {
		return sendError(c, fiber.StatusConflict, "ROOM_STARTED", "room is no longer accepting teams")
	}

	team := &models.Team{
		RoomID:    roomID,
		Name:      req.Name,
		Owner:     req.Owner,
		PurseLeft: room.Purse,
		SlotsLeft: room.SquadMax,
		IsAgent:   req.IsAgent,
	}
	if err := s.teams.Create(c.Context(), team); err != nil {
		return sendAuctionError(c, err)
	}
	return sendCreated(c, team, "team joined")
}

func (s *Server) handleStartRoom(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}

	teams, err := s.teams.GetByRoom(c.Context(), roomID)
	if err != nil {
		return sendAuctionError(c, err)
	}
	if len(teams) < 2 {
		return sendError(c, fiber.StatusConflict, "NOT_ENOUGH_TEAMS", "at least two teams are required to start")
	}

	if err := s.rooms.Activate(c.Context(), roomID); err != nil {
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, nil, "auction started")
}

func (s *Server) handleAddAgents(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}

	var req addAgentsRequest
	if err := c.BodyParser(&req); err != nil || req.Count <= 0 {
		return sendBadRequest(c, "count must be positive")
	}

	room, err := s.rooms.GetByID(c.Context(), roomID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return sendError(c, fiber.StatusNotFound, "ROOM_NOT_FOUND", "room not found")
		}
		return sendAuctionError(c, err)
	}
	if room.Status != models.RoomStatusWaiting {
		return sendError(c, fiber.StatusConflict, "ROOM_STARTED", "room is no longer accepting teams")
	}

	existing, err := s.teams.GetAgents(c.Context(), roomID)
	if err != nil {
		return sendAuctionError(c, err)
	}

	created := make([]*models.Team, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		team := &models.Team{
			RoomID:    roomID,
			Name:      fmt.Sprintf("AI XI %d", len(existing)+i+1),
			PurseLeft: room.Purse,
			SlotsLeft: room.SquadMax,
			IsAgent:   true,
		}
		if err := s.teams.Create(c.Context(), team); err != nil {
			return sendAuctionError(c, err)
		}
		created = append(created, team)
	}
	return sendCreated(c, created, "agent teams added")
}

func (s *Server) handleRoomTeams(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}
	teams, err := s.teams.GetByRoom(c.Context(), roomID)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, teams, "")
}

func (s *Server) handleRoomRoster(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}
	roster, err := s.auctions.Roster(c.Context(), roomID)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, roster, "")
}

func (s *Server) handleRoomBids(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}
	bids, err := s.auctions.RecentBids(c.Context(), roomID, c.QueryInt("limit", 20))
	if err != nil {
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, bids, "")
}

func (s *Server) handleRoomUnsold(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}
	unsold, err := s.auctions.UnsoldPlayers(c.Context(), roomID)
	if err != nil {
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, unsold, "")
}
