package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

const (
	playerCacheSize   = 2048
	playerCacheExpiry = 10 * time.Minute
)

type PlayerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	GetAll(ctx context.Context) ([]*models.Player, error)
	// GetAvailableForRoom returns catalog players without a roster entry in
	// the given room. Unsold players stay available for re-nomination.
	GetAvailableForRoom(ctx context.Context, roomID uuid.UUID) ([]*models.Player, error)
}

type cachedPlayer struct {
	player   *models.Player
	cachedAt time.Time
}

type playerRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewPlayerRepository(db *bun.DB) PlayerRepository {
	cache, _ := lru.New(playerCacheSize)
	return &playerRepository{db: db, cache: cache}
}

func (r *playerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	if entry, ok := r.cache.Get(id); ok {
		cached := entry.(cachedPlayer)
		if time.Since(cached.cachedAt) < playerCacheExpiry {
			return cached.player, nil
		}
		r.cache.Remove(id)
	}

	player := new(models.Player)
	err := r.db.NewSelect().
		Model(player).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "player", ID: id}
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	r.cache.Add(id, cachedPlayer{player: player, cachedAt: time.Now()})
	return player, nil
}

func (r *playerRepository) GetAll(ctx context.Context) ([]*models.Player, error) {
	var players []*models.Player
	err := r.db.NewSelect().
		Model(&players).
		Order("base_price DESC", "name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	return players, nil
}

func (r *playerRepository) GetAvailableForRoom(ctx context.Context, roomID uuid.UUID) ([]*models.Player, error) {
	var players []*models.Player
	err := r.db.NewSelect().
		Model(&players).
		Where("p.id NOT IN (SELECT player_id FROM roster WHERE room_id = ?)", roomID).
		Order("base_price DESC", "name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get available players: %w", err)
	}
	return players, nil
}
