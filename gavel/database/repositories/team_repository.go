package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, roomID, teamID uuid.UUID) (*models.Team, error)
	GetByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.Team, error)
	GetAgents(ctx context.Context, roomID uuid.UUID) ([]*models.Team, error)
}

type teamRepository struct {
	db *bun.DB
}

func NewTeamRepository(db *bun.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	team.CreatedAt = time.Now()
	team.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().Model(team).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, roomID, teamID uuid.UUID) (*models.Team, error) {
	team := new(models.Team)
	err := r.db.NewSelect().
		Model(team).
		Where("room_id = ? AND id = ?", roomID, teamID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "team", ID: teamID}
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (r *teamRepository) GetByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.Team, error) {
	var teams []*models.Team
	err := r.db.NewSelect().
		Model(&teams).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	return teams, nil
}

func (r *teamRepository) GetAgents(ctx context.Context, roomID uuid.UUID) ([]*models.Team, error) {
	var teams []*models.Team
	err := r.db.NewSelect().
		Model(&teams).
		Where("room_id = ? AND is_agent = true", roomID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent teams: %w", err)
	}
	return teams, nil
}
