package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/gavelhouse/gavel/gavel/database/models"
	"github.com/gavelhouse/gavel/gavel/database/repositories"
)

// PlayerSearchItems implements fuzzy.Source over the player catalog.
type PlayerSearchItems []PlayerSearchItem

type PlayerSearchItem struct {
	Player *models.Player
	Name   string
}

func (items PlayerSearchItems) Len() int {
	return len(items)
}

func (items PlayerSearchItems) String(i int) string {
	return items[i].Name
}

// SearchFilters narrow a player search before fuzzy matching runs.
type SearchFilters struct {
	Role     models.PlayerRole
	Overseas *bool
	Marquee  *bool
}

// SearchService answers player lookups for nomination pickers. Results come
// from the cached catalog, so repeated queries stay off the database.
type SearchService struct {
	players repositories.PlayerRepository
}

func NewSearchService(players repositories.PlayerRepository) *SearchService {
	return &SearchService{players: players}
}

// SearchPlayers fuzzy-matches query against the full catalog. An empty query
// returns the filtered catalog in storage order.
func (s *SearchService) SearchPlayers(ctx context.Context, query string, filters SearchFilters) ([]*models.Player, error) {
	players, err := s.players.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.match(players, query, filters), nil
}

// SearchAvailable is SearchPlayers restricted to players not yet on any
// roster in the room.
func (s *SearchService) SearchAvailable(ctx context.Context, roomID uuid.UUID, query string, filters SearchFilters) ([]*models.Player, error) {
	players, err := s.players.GetAvailableForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.match(players, query, filters), nil
}

func (s *SearchService) match(players []*models.Player, query string, filters SearchFilters) []*models.Player {
	filtered := applyFilters(players, filters)
	if query == "" {
		return filtered
	}

	items := make(PlayerSearchItems, len(filtered))
	for i, player := range filtered {
		items[i] = PlayerSearchItem{
			Player: player,
			Name:   normalizeName(player.Name),
		}
	}

	matches := fuzzy.FindFrom(normalizeName(query), items)
	results := make([]*models.Player, 0, len(matches))
	for _, m := range matches {
		results = append(results, items[m.Index].Player)
	}
	return results
}

func applyFilters(players []*models.Player, filters SearchFilters) []*models.Player {
	result := make([]*models.Player, 0, len(players))
	for _, player := range players {
		if filters.Role != "" && player.Role != filters.Role {
			continue
		}
		if filters.Overseas != nil && player.IsOverseas != *filters.Overseas {
			continue
		}
		if filters.Marquee != nil && player.IsMarquee != *filters.Marquee {
			continue
		}
		result = append(result, player)
	}
	return result
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
