package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gavelhouse/gavel/gavel/database/models"
	"github.com/gavelhouse/gavel/gavel/services"
)

func searchFilters(c *fiber.Ctx) services.SearchFilters {
	filters := services.SearchFilters{
		Role: models.PlayerRole(c.Query("role")),
	}
	if v := c.Query("overseas"); v != "" {
		overseas := v == "true"
		filters.Overseas = &overseas
	}
	if v := c.Query("marquee"); v != "" {
		marquee := v == "true"
		filters.Marquee = &marquee
	}
	return filters
}

func (s *Server) handleSearchPlayers(c *fiber.Ctx) error {
	players, err := s.search.SearchPlayers(c.Context(), c.Query("query"), searchFilters(c))
	if err != nil {
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, players, "")
}

// handleAvailablePlayers answers the nomination picker: catalog minus the
// room's sold players.
func (s *Server) handleAvailablePlayers(c *fiber.Ctx) error {
	roomID, err := s.roomID(c)
	if err != nil {
		return sendBadRequest(c, "invalid room id")
	}

	players, err := s.search.SearchAvailable(c.Context(), roomID, c.Query("query"), searchFilters(c))
	if err != nil {
		return sendAuctionError(c, err)
	}
	return sendSuccess(c, players, "")
}
