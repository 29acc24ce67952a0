package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

const roomCodeLength = 4

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetByCode(ctx context.Context, code string) (*models.Room, error)
	GetActive(ctx context.Context) ([]*models.Room, error)
	// Activate flips a waiting room to active and creates its singleton
	// auction state row in the same transaction.
	Activate(ctx context.Context, id uuid.UUID) error
}

type roomRepository struct {
	db *bun.DB
}

func NewRoomRepository(db *bun.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.Code == "" {
		code, err := generateRoomCode()
		if err != nil {
			return err
		}
		room.Code = code
	}
	room.Status = models.RoomStatusWaiting
	room.CreatedAt = time.Now()
	room.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().Model(room).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	slog.Info("Room created",
		slog.String("type", "db"),
		slog.String("room_id", room.ID.String()),
		slog.String("code", room.Code))

	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room := new(models.Room)
	err := r.db.NewSelect().
		Model(room).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "room", ID: id}
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

func (r *roomRepository) GetByCode(ctx context.Context, code string) (*models.Room, error) {
	room := new(models.Room)
	err := r.db.NewSelect().
		Model(room).
		Where("code = ?", strings.ToUpper(code)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "room", ID: code}
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

func (r *roomRepository) GetActive(ctx context.Context) ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.NewSelect().
		Model(&rooms).
		Where("status = ?", models.RoomStatusActive).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active rooms: %w", err)
	}
	return rooms, nil
}

func (r *roomRepository) Activate(ctx context.Context, id uuid.UUID) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model((*models.Room)(nil)).
			Set("status = ?", models.RoomStatusActive).
			Set("updated_at = ?", time.Now()).
			Where("id = ? AND status = ?", id, models.RoomStatusWaiting).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to activate room: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("room %s is not waiting to start", id)
		}

		state := &models.AuctionState{
			RoomID:    id,
			Phase:     models.PhaseIdle,
			UpdatedAt: time.Now(),
		}
		_, err = tx.NewInsert().
			Model(state).
			On("CONFLICT (room_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create auction state: %w", err)
		}

		return nil
	})
}

// generateRoomCode produces a short join code for a room. Uniqueness is
// enforced by the rooms.code constraint.
func generateRoomCode() (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	encoded := base32.StdEncoding.EncodeToString(bytes)
	return strings.ToUpper(encoded[:roomCodeLength]), nil
}
