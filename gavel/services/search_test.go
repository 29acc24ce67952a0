package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

type fakePlayerRepo struct {
	players   []*models.Player
	available []*models.Player
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	for _, p := range f.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlayerRepo) GetAll(ctx context.Context) ([]*models.Player, error) {
	return f.players, nil
}

func (f *fakePlayerRepo) GetAvailableForRoom(ctx context.Context, roomID uuid.UUID) ([]*models.Player, error) {
	return f.available, nil
}

func catalogPlayer(name string, role models.PlayerRole, overseas bool) *models.Player {
	return &models.Player{
		ID:         uuid.New(),
		Name:       name,
		Role:       role,
		BasePrice:  decimal.RequireFromString("1.0"),
		IsOverseas: overseas,
	}
}

func testCatalog() []*models.Player {
	return []*models.Player{
		catalogPlayer("Vikram Rao", models.RoleBatter, false),
		catalogPlayer("Arjun Khanna", models.RoleAllRounder, false),
		catalogPlayer("Dale Carter", models.RolePacer, true),
		catalogPlayer("Vihaan Raut", models.RoleSpinner, false),
	}
}

func TestSearchPlayers_FuzzyMatch(t *testing.T) {
	svc := NewSearchService(&fakePlayerRepo{players: testCatalog()})

	results, err := svc.SearchPlayers(context.Background(), "vikram", SearchFilters{})
	assert.Nil(t, err)

	assert.True(t, len(results) >= 1)
	check.Equal(t, "Vikram Rao", results[0].Name)
}

func TestSearchPlayers_PartialQuery(t *testing.T) {
	svc := NewSearchService(&fakePlayerRepo{players: testCatalog()})

	// Subsequence matching tolerates dropped letters.
	results, err := svc.SearchPlayers(context.Background(), "dl carter", SearchFilters{})
	assert.Nil(t, err)

	assert.True(t, len(results) >= 1)
	check.Equal(t, "Dale Carter", results[0].Name)
}

func TestSearchPlayers_EmptyQueryReturnsAll(t *testing.T) {
	svc := NewSearchService(&fakePlayerRepo{players: testCatalog()})

	results, err := svc.SearchPlayers(context.Background(), "", SearchFilters{})
	assert.Nil(t, err)
	check.Equal(t, 4, len(results))
}

func TestSearchPlayers_RoleFilter(t *testing.T) {
	svc := NewSearchService(&fakePlayerRepo{players: testCatalog()})

	results, err := svc.SearchPlayers(context.Background(), "", SearchFilters{Role: models.RolePacer})
	assert.Nil(t, err)

	assert.Equal(t, 1, len(results))
	check.Equal(t, "Dale Carter", results[0].Name)
}

func TestSearchPlayers_OverseasFilter(t *testing.T) {
	svc := NewSearchService(&fakePlayerRepo{players: testCatalog()})

	domestic := false
	results, err := svc.SearchPlayers(context.Background(), "", SearchFilters{Overseas: &domestic})
	assert.Nil(t, err)
	check.Equal(t, 3, len(results))
}

func TestSearchPlayers_RanksContiguousMatchFirst(t *testing.T) {
	svc := NewSearchService(&fakePlayerRepo{players: []*models.Player{
		// Matches "arjun" only as scattered letters.
		catalogPlayer("Aritra Junaid", models.RoleBatter, false),
		catalogPlayer("Arjun Khanna", models.RoleAllRounder, false),
	}})

	results, err := svc.SearchPlayers(context.Background(), "arjun", SearchFilters{})
	assert.Nil(t, err)

	assert.True(t, len(results) >= 1)
	check.Equal(t, "Arjun Khanna", results[0].Name)
}

func TestSearchPlayers_NoMatch(t *testing.T) {
	svc := NewSearchService(&fakePlayerRepo{players: testCatalog()})

	results, err := svc.SearchPlayers(context.Background(), "zzzzqqqq", SearchFilters{})
	assert.Nil(t, err)
	check.Equal(t, 0, len(results))
}

func TestSearchAvailable_UsesRoomPool(t *testing.T) {
	catalog := testCatalog()
	svc := NewSearchService(&fakePlayerRepo{
		players:   catalog,
		available: catalog[:2],
	})

	results, err := svc.SearchAvailable(context.Background(), uuid.New(), "", SearchFilters{})
	assert.Nil(t, err)
	check.Equal(t, 2, len(results))
}
