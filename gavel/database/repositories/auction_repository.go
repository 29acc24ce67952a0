package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/gavelhouse/gavel/gavel/auction"
	"github.com/gavelhouse/gavel/gavel/database/models"
)

// AuctionRepository is the ledger behind the auction engine. All state
// mutations are conditional writes keyed on the auction_states version
// column; a write that matches zero rows reports auction.ErrStale so the
// engine can classify the race.
type AuctionRepository interface {
	auction.Store

	RecentBids(ctx context.Context, roomID uuid.UUID, limit int) ([]*models.Bid, error)
	Roster(ctx context.Context, roomID uuid.UUID) ([]*models.RosterEntry, error)
	UnsoldPlayers(ctx context.Context, roomID uuid.UUID) ([]*models.UnsoldPlayer, error)
}

type auctionRepository struct {
	db *bun.DB
}

func NewAuctionRepository(db *bun.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

func (r *auctionRepository) Room(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	room := new(models.Room)
	err := r.db.NewSelect().
		Model(room).
		Where("id = ?", roomID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %s: %w", roomID, auction.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

func (r *auctionRepository) Team(ctx context.Context, roomID, teamID uuid.UUID) (*models.Team, error) {
	team := new(models.Team)
	err := r.db.NewSelect().
		Model(team).
		Where("room_id = ? AND id = ?", roomID, teamID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("team %s: %w", teamID, auction.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (r *auctionRepository) Player(ctx context.Context, playerID uuid.UUID) (*models.Player, error) {
	player := new(models.Player)
	err := r.db.NewSelect().
		Model(player).
		Where("id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("player %s: %w", playerID, auction.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (r *auctionRepository) State(ctx context.Context, roomID uuid.UUID) (*models.AuctionState, error) {
	state := new(models.AuctionState)
	err := r.db.NewSelect().
		Model(state).
		Where("room_id = ?", roomID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("auction state for room %s: %w", roomID, auction.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get auction state: %w", err)
	}
	return state, nil
}

func (r *auctionRepository) PlayerSold(ctx context.Context, roomID, playerID uuid.UUID) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.RosterEntry)(nil)).
		Where("room_id = ? AND player_id = ?", roomID, playerID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check roster: %w", err)
	}
	return exists, nil
}

func (r *auctionRepository) OpenBidding(ctx context.Context, st *models.AuctionState, playerID, teamID uuid.UUID, price decimal.Decimal, deadline time.Time) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model((*models.AuctionState)(nil)).
			Set("phase = ?", models.PhaseBidding).
			Set("current_player_id = ?", playerID).
			Set("base_price = ?", price).
			Set("high_bid = ?", price).
			Set("high_team_id = ?", teamID).
			Set("nominated_by = ?", teamID).
			Set("deadline = ?", deadline).
			Set("version = version + 1").
			Set("updated_at = ?", time.Now()).
			Where("room_id = ? AND phase = ? AND version = ?",
				st.RoomID, models.PhaseIdle, st.Version).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to open bidding: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return auction.ErrStale
		}

		// Opening bid attributed to the nominator at the starting price.
		bid := &models.Bid{
			RoomID:    st.RoomID,
			PlayerID:  playerID,
			TeamID:    teamID,
			Amount:    price,
			CreatedAt: time.Now(),
		}
		if _, err := tx.NewInsert().Model(bid).Exec(ctx); err != nil {
			return fmt.Errorf("failed to record opening bid: %w", err)
		}

		return nil
	})
}

func (r *auctionRepository) RaiseBid(ctx context.Context, st *models.AuctionState, teamID uuid.UUID, amount decimal.Decimal, deadline time.Time) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model((*models.AuctionState)(nil)).
			Set("high_bid = ?", amount).
			Set("high_team_id = ?", teamID).
			Set("deadline = ?", deadline).
			Set("version = version + 1").
			Set("updated_at = ?", time.Now()).
			Where("room_id = ? AND phase = ? AND version = ? AND high_bid = ? AND deadline > now()",
				st.RoomID, models.PhaseBidding, st.Version, st.HighBid).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to raise bid: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return auction.ErrStale
		}

		bid := &models.Bid{
			RoomID:    st.RoomID,
			PlayerID:  *st.CurrentPlayerID,
			TeamID:    teamID,
			Amount:    amount,
			CreatedAt: time.Now(),
		}
		if _, err := tx.NewInsert().Model(bid).Exec(ctx); err != nil {
			return fmt.Errorf("failed to record bid: %w", err)
		}

		return nil
	})
}

func (r *auctionRepository) SettleSale(ctx context.Context, st *models.AuctionState, entry *models.RosterEntry) error {
	err := r.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		if err := r.resetState(ctx, tx, st, entry.PlayerID, &entry.TeamID, entry.Price, true); err != nil {
			return err
		}

		entry.CreatedAt = time.Now()
		if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert roster entry: %w", err)
		}

		overseasDelta := 0
		if entry.IsOverseas {
			overseasDelta = 1
		}
		result, err := tx.NewUpdate().
			Model((*models.Team)(nil)).
			Set("purse_left = purse_left - ?", entry.Price).
			Set("slots_left = slots_left - 1").
			Set("overseas_count = overseas_count + ?", overseasDelta).
			Set("updated_at = ?", time.Now()).
			Where("id = ? AND room_id = ? AND slots_left > 0 AND purse_left >= ?",
				entry.TeamID, entry.RoomID, entry.Price).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to debit winning team: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("winning team %s cannot absorb sale of %s", entry.TeamID, entry.Price)
		}

		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("Sale settled",
		slog.String("type", "db"),
		slog.String("room_id", entry.RoomID.String()),
		slog.String("team_id", entry.TeamID.String()),
		slog.String("price", entry.Price.String()))

	return nil
}

func (r *auctionRepository) SettleUnsold(ctx context.Context, st *models.AuctionState) error {
	playerID := *st.CurrentPlayerID
	return r.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		if err := r.resetState(ctx, tx, st, playerID, nil, decimal.Zero, false); err != nil {
			return err
		}

		unsold := &models.UnsoldPlayer{
			RoomID:    st.RoomID,
			PlayerID:  playerID,
			CreatedAt: time.Now(),
		}
		_, err := tx.NewInsert().
			Model(unsold).
			On("CONFLICT (room_id, player_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to record unsold player: %w", err)
		}

		return nil
	})
}

// resetState performs the conditional bidding -> idle transition and
// records the round's outcome on the state row. Must run inside the
// settle transaction so a lost race rolls everything back.
func (r *auctionRepository) resetState(ctx context.Context, tx bun.Tx, st *models.AuctionState, playerID uuid.UUID, teamID *uuid.UUID, price decimal.Decimal, sold bool) error {
	result, err := tx.NewUpdate().
		Model((*models.AuctionState)(nil)).
		Set("phase = ?", models.PhaseIdle).
		Set("current_player_id = NULL").
		Set("base_price = ?", decimal.Zero).
		Set("high_bid = ?", decimal.Zero).
		Set("high_team_id = NULL").
		Set("nominated_by = NULL").
		Set("deadline = NULL").
		Set("last_player_id = ?", playerID).
		Set("last_team_id = ?", teamID).
		Set("last_price = ?", price).
		Set("last_sold = ?", sold).
		Set("version = version + 1").
		Set("updated_at = ?", time.Now()).
		Where("room_id = ? AND phase = ? AND version = ?",
			st.RoomID, models.PhaseBidding, st.Version).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset auction state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return auction.ErrStale
	}

	return nil
}

func (r *auctionRepository) CompleteRoomIfDone(ctx context.Context, roomID uuid.UUID) (bool, error) {
	result, err := r.db.NewUpdate().
		Model((*models.Room)(nil)).
		Set("status = ?", models.RoomStatusCompleted).
		Set("updated_at = ?", time.Now()).
		Where("id = ? AND status = ?", roomID, models.RoomStatusActive).
		Where("NOT EXISTS (SELECT 1 FROM teams WHERE room_id = ? AND slots_left > 0)", roomID).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to complete room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *auctionRepository) ExpiredRooms(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var roomIDs []uuid.UUID
	err := r.db.NewSelect().
		Model((*models.AuctionState)(nil)).
		Column("room_id").
		Where("phase = ? AND deadline <= ?", models.PhaseBidding, now).
		Scan(ctx, &roomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired rooms: %w", err)
	}
	return roomIDs, nil
}

func (r *auctionRepository) RecentBids(ctx context.Context, roomID uuid.UUID, limit int) ([]*models.Bid, error) {
	if limit <= 0 {
		limit = 20
	}
	var bids []*models.Bid
	err := r.db.NewSelect().
		Model(&bids).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent bids: %w", err)
	}
	return bids, nil
}

func (r *auctionRepository) Roster(ctx context.Context, roomID uuid.UUID) ([]*models.RosterEntry, error) {
	var entries []*models.RosterEntry
	err := r.db.NewSelect().
		Model(&entries).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	return entries, nil
}

func (r *auctionRepository) UnsoldPlayers(ctx context.Context, roomID uuid.UUID) ([]*models.UnsoldPlayer, error) {
	var unsold []*models.UnsoldPlayer
	err := r.db.NewSelect().
		Model(&unsold).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get unsold players: %w", err)
	}
	return unsold, nil
}
