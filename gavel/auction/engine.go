package auction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

// Store is the ledger the engine runs against. Every mutating call is a
// conditional write keyed on the AuctionState version the caller observed;
// implementations return ErrStale when the condition no longer holds, and
// ErrNotFound for missing rows.
type Store interface {
	Room(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	Team(ctx context.Context, roomID, teamID uuid.UUID) (*models.Team, error)
	Player(ctx context.Context, playerID uuid.UUID) (*models.Player, error)
	State(ctx context.Context, roomID uuid.UUID) (*models.AuctionState, error)
	PlayerSold(ctx context.Context, roomID, playerID uuid.UUID) (bool, error)

	// OpenBidding transitions idle -> bidding and appends the opening bid
	// record attributed to the nominator, in one conditional transaction.
	OpenBidding(ctx context.Context, st *models.AuctionState, playerID, teamID uuid.UUID, price decimal.Decimal, deadline time.Time) error

	// RaiseBid replaces the high bid, extends the deadline and appends a
	// bid record, in one conditional transaction. The write is also
	// conditional on the observed deadline still lying in the future, so a
	// bid that was validated in time but lands after expiry goes stale
	// instead of reviving the round.
	RaiseBid(ctx context.Context, st *models.AuctionState, teamID uuid.UUID, amount decimal.Decimal, deadline time.Time) error

	// SettleSale commits the roster entry, debits the winner and resets the
	// state to idle in a single transaction.
	SettleSale(ctx context.Context, st *models.AuctionState, entry *models.RosterEntry) error

	// SettleUnsold records the player as unsold and resets the state to
	// idle in a single transaction.
	SettleUnsold(ctx context.Context, st *models.AuctionState) error

	// CompleteRoomIfDone flips an active room to completed once every
	// team's squad is full, reporting whether it did. A room that still
	// has open slots anywhere is left untouched.
	CompleteRoomIfDone(ctx context.Context, roomID uuid.UUID) (bool, error)

	// ExpiredRooms lists rooms in the bidding phase whose deadline has
	// passed as of now.
	ExpiredRooms(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

// Engine is the per-room auction state machine. It holds no state of its
// own; correctness under concurrent callers comes entirely from the
// conditional-write discipline of the Store.
type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	if store == nil {
		panic("auction store cannot be nil")
	}
	return &Engine{store: store, now: time.Now}
}

type NominationResult struct {
	Phase     models.Phase
	PlayerID  uuid.UUID
	BasePrice decimal.Decimal
	Deadline  time.Time
}

type BidResult struct {
	HighBid    decimal.Decimal
	HighTeamID uuid.UUID
	Deadline   time.Time
	MinNextBid decimal.Decimal
}

type FinalizeResult struct {
	Sold       bool
	PlayerID   uuid.UUID
	FinalPrice decimal.Decimal
	WinnerID   *uuid.UUID
}

// Nominate puts a player up for bidding. Legal only while the room is
// idle; the starting price becomes the opening high bid, attributed to the
// nominating team.
func (e *Engine) Nominate(ctx context.Context, roomID, playerID, teamID uuid.UUID, price decimal.Decimal) (*NominationResult, error) {
	room, err := e.store.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomStatusActive {
		return nil, newError(KindInvalidPhase, "room %s is not active", room.Code)
	}

	st, err := e.store.State(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if st.Phase != models.PhaseIdle {
		return nil, newError(KindInvalidPhase, "another player is currently being auctioned")
	}

	team, err := e.store.Team(ctx, roomID, teamID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(KindParticipantNotFound, "team %s not found in room", teamID)
		}
		return nil, err
	}

	player, err := e.store.Player(ctx, playerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(KindItemNotFound, "player %s not found", playerID)
		}
		return nil, err
	}

	floor := NominationFloor(player.BasePrice)
	if price.Cmp(floor) < 0 {
		return nil, newError(KindPriceTooLow, "starting price must be at least %s", floor)
	}

	// The opening bid is a real bid held by the nominator, so the same
	// constraints apply as for any raise.
	if err := CheckBid(room, team, player, price); err != nil {
		return nil, err
	}

	sold, err := e.store.PlayerSold(ctx, roomID, playerID)
	if err != nil {
		return nil, err
	}
	if sold {
		return nil, newError(KindItemAlreadySold, "player %s already sold in this room", player.Name)
	}

	deadline := e.now().Add(room.BidTimer())
	if err := e.store.OpenBidding(ctx, st, playerID, teamID, price, deadline); err != nil {
		if errors.Is(err, ErrStale) {
			return nil, e.nominateLost(ctx, roomID)
		}
		return nil, err
	}

	slog.Info("Player nominated",
		slog.String("type", "cmd"),
		slog.String("room_id", roomID.String()),
		slog.String("player", player.Name),
		slog.String("price", price.String()))

	return &NominationResult{
		Phase:     models.PhaseBidding,
		PlayerID:  playerID,
		BasePrice: price,
		Deadline:  deadline,
	}, nil
}

// nominateLost classifies a failed conditional nomination write.
func (e *Engine) nominateLost(ctx context.Context, roomID uuid.UUID) error {
	st, err := e.store.State(ctx, roomID)
	if err != nil {
		return err
	}
	if st.Phase != models.PhaseIdle {
		return newError(KindInvalidPhase, "another player is currently being auctioned")
	}
	return newError(KindSuperseded, "lost nomination race, room is idle again")
}

// Bid raises the high bid on the live player. The caller must beat the
// current high bid by at least the increment rule; an accepted bid extends
// the deadline by the room's bid timer.
func (e *Engine) Bid(ctx context.Context, roomID, teamID uuid.UUID, amount decimal.Decimal) (*BidResult, error) {
	room, err := e.store.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}

	st, err := e.store.State(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if st.Phase != models.PhaseBidding || st.CurrentPlayerID == nil {
		return nil, newError(KindInvalidPhase, "no player is currently being auctioned")
	}

	now := e.now()
	if st.Expired(now) {
		return nil, newError(KindWindowExpired, "bidding window has expired")
	}

	team, err := e.store.Team(ctx, roomID, teamID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(KindParticipantNotFound, "team %s not found in room", teamID)
		}
		return nil, err
	}

	minNext := MinNextBid(st.HighBid)
	if amount.Cmp(minNext) < 0 {
		return nil, newError(KindBidTooLow, "minimum bid is %s", minNext)
	}

	player, err := e.store.Player(ctx, *st.CurrentPlayerID)
	if err != nil {
		return nil, err
	}

	if err := CheckBid(room, team, player, amount); err != nil {
		return nil, err
	}

	deadline := now.Add(room.BidTimer())
	if err := e.store.RaiseBid(ctx, st, teamID, amount, deadline); err != nil {
		if errors.Is(err, ErrStale) {
			return nil, e.bidLost(ctx, roomID)
		}
		return nil, err
	}

	slog.Info("Bid accepted",
		slog.String("type", "cmd"),
		slog.String("room_id", roomID.String()),
		slog.String("team", team.Name),
		slog.String("amount", amount.String()))

	return &BidResult{
		HighBid:    amount,
		HighTeamID: teamID,
		Deadline:   deadline,
		MinNextBid: MinNextBid(amount),
	}, nil
}

// bidLost classifies a failed conditional bid write. A concurrent raise
// yields Superseded so the caller can recompute against the new high bid;
// a phase change means the round ended underneath the caller.
func (e *Engine) bidLost(ctx context.Context, roomID uuid.UUID) error {
	st, err := e.store.State(ctx, roomID)
	if err != nil {
		return err
	}
	switch {
	case st.Phase != models.PhaseBidding:
		return newError(KindInvalidPhase, "bidding round has ended")
	case st.Expired(e.now()):
		return newError(KindWindowExpired, "bidding window has expired")
	default:
		return newError(KindSuperseded, "outbid by a concurrent bidder, current high bid is %s", st.HighBid)
	}
}

// ExpireAndFinalize settles an expired bidding round: the high bidder wins
// the player at the high bid, or the player goes unsold if nobody ever
// held the bid. Idempotent: a duplicate call observes the settled state
// and returns the recorded outcome instead of erroring.
func (e *Engine) ExpireAndFinalize(ctx context.Context, roomID uuid.UUID) (*FinalizeResult, error) {
	st, err := e.store.State(ctx, roomID)
	if err != nil {
		return nil, err
	}

	switch st.Phase {
	case models.PhaseIdle:
		if res := settledResult(st); res != nil {
			return res, nil
		}
		return nil, newError(KindInvalidPhase, "no round to finalize")
	case models.PhaseFinalizing:
		return nil, newError(KindSuperseded, "round is being settled by another caller")
	}

	if !st.Expired(e.now()) {
		return nil, newError(KindNotYetExpired, "bidding window has not expired yet")
	}

	playerID := *st.CurrentPlayerID
	sold := st.HighTeamID != nil && st.HighBid.IsPositive()

	if sold {
		player, err := e.store.Player(ctx, playerID)
		if err != nil {
			return nil, err
		}
		entry := &models.RosterEntry{
			RoomID:     roomID,
			TeamID:     *st.HighTeamID,
			PlayerID:   playerID,
			Role:       player.Role,
			IsOverseas: player.IsOverseas,
			Price:      st.HighBid,
		}
		if err := e.store.SettleSale(ctx, st, entry); err != nil {
			return e.finalizeLost(ctx, roomID, playerID, err)
		}
		slog.Info("Player sold",
			slog.String("type", "cmd"),
			slog.String("room_id", roomID.String()),
			slog.String("player", player.Name),
			slog.String("winner", st.HighTeamID.String()),
			slog.String("price", st.HighBid.String()))
		e.completeIfDone(ctx, roomID)
		winner := *st.HighTeamID
		return &FinalizeResult{Sold: true, PlayerID: playerID, FinalPrice: st.HighBid, WinnerID: &winner}, nil
	}

	if err := e.store.SettleUnsold(ctx, st); err != nil {
		return e.finalizeLost(ctx, roomID, playerID, err)
	}

	slog.Info("Player went unsold",
		slog.String("type", "cmd"),
		slog.String("room_id", roomID.String()),
		slog.String("player_id", playerID.String()))

	return &FinalizeResult{Sold: false, PlayerID: playerID, FinalPrice: decimal.Zero}, nil
}

// completeIfDone closes the room once every squad is full. Only a sale
// consumes a slot, so the check runs on the sold path alone. The settle
// already committed, so a failure here is logged rather than returned.
func (e *Engine) completeIfDone(ctx context.Context, roomID uuid.UUID) {
	done, err := e.store.CompleteRoomIfDone(ctx, roomID)
	if err != nil {
		slog.Error("Failed to check room completion",
			slog.String("type", "db"),
			slog.String("room_id", roomID.String()),
			slog.Any("error", err))
		return
	}
	if done {
		slog.Info("Auction completed, all squads are full",
			slog.String("type", "cmd"),
			slog.String("room_id", roomID.String()))
	}
}

// finalizeLost resolves a finalize race: if a concurrent caller already
// settled this round, its outcome is returned as a no-op success.
func (e *Engine) finalizeLost(ctx context.Context, roomID, playerID uuid.UUID, cause error) (*FinalizeResult, error) {
	if !errors.Is(cause, ErrStale) {
		return nil, cause
	}
	st, err := e.store.State(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if st.Phase == models.PhaseIdle && st.LastPlayerID != nil && *st.LastPlayerID == playerID {
		return settledResult(st), nil
	}
	return nil, newError(KindSuperseded, "round was settled by another caller")
}

// settledResult reconstructs the last settled outcome recorded on the
// state row, or nil when no round has settled yet.
func settledResult(st *models.AuctionState) *FinalizeResult {
	if st.LastSold == nil || st.LastPlayerID == nil {
		return nil
	}
	res := &FinalizeResult{
		Sold:       *st.LastSold,
		PlayerID:   *st.LastPlayerID,
		FinalPrice: st.LastPrice,
	}
	if st.LastTeamID != nil {
		winner := *st.LastTeamID
		res.WinnerID = &winner
	}
	return res
}

// SweepExpired finalizes every room whose bidding deadline has passed.
// Invoked by the scheduler tick; races with client-observed expiry are
// harmless because finalization is conditional on the bidding phase.
func (e *Engine) SweepExpired(ctx context.Context) {
	rooms, err := e.store.ExpiredRooms(ctx, e.now())
	if err != nil {
		slog.Error("Failed to list expired rooms",
			slog.String("type", "db"),
			slog.Any("error", err))
		return
	}

	for _, roomID := range rooms {
		if _, err := e.ExpireAndFinalize(ctx, roomID); err != nil {
			switch KindOf(err) {
			case KindNotYetExpired, KindInvalidPhase, KindSuperseded:
				// Lost the race to another finalizer; nothing to do.
			default:
				slog.Error("Failed to finalize expired round",
					slog.String("room_id", roomID.String()),
					slog.Any("error", err))
			}
		}
	}
}
