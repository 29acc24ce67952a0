package agent

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gavelhouse/gavel/gavel/auction"
	"github.com/gavelhouse/gavel/gavel/database/models"
	"github.com/gavelhouse/gavel/gavel/database/repositories"
)

// Config tunes runner pacing. Zero values disable the respective delay.
type Config struct {
	TickInterval    time.Duration
	NominationDelay time.Duration
	BidWindow       time.Duration
	Jitter          time.Duration
}

// Runner drives agent teams across all active rooms. Every tick it fans out
// one goroutine per room; inside a room agents act sequentially so their
// decisions see each other's writes. Losing a race to a human bidder is
// routine and never logged above debug.
type Runner struct {
	engine   *auction.Engine
	rooms    repositories.RoomRepository
	teams    repositories.TeamRepository
	players  repositories.PlayerRepository
	auctions repositories.AuctionRepository
	provider Provider
	cfg      Config
	shutdown chan struct{}
	done     chan struct{}
}

func NewRunner(
	engine *auction.Engine,
	rooms repositories.RoomRepository,
	teams repositories.TeamRepository,
	players repositories.PlayerRepository,
	auctions repositories.AuctionRepository,
	provider Provider,
	cfg Config,
) *Runner {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 2 * time.Second
	}
	return &Runner{
		engine:   engine,
		rooms:    rooms,
		teams:    teams,
		players:  players,
		auctions: auctions,
		provider: provider,
		cfg:      cfg,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *Runner) Start() {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.cfg.TickInterval)
		defer ticker.Stop()

		slog.Info("Agent runner started",
			slog.String("type", "ai"),
			slog.Duration("tick_interval", r.cfg.TickInterval))

		for {
			select {
			case <-r.shutdown:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), r.cfg.TickInterval)
				r.tick(ctx)
				cancel()
			}
		}
	}()
}

func (r *Runner) Shutdown() {
	close(r.shutdown)
	<-r.done
	slog.Info("Agent runner stopped", slog.String("type", "ai"))
}

func (r *Runner) tick(ctx context.Context) {
	rooms, err := r.rooms.GetActive(ctx)
	if err != nil {
		slog.Error("Agent tick failed to list rooms",
			slog.String("type", "ai"),
			slog.String("error", err.Error()))
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, room := range rooms {
		room := room
		g.Go(func() error {
			r.tickRoom(ctx, room)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Runner) tickRoom(ctx context.Context, room *models.Room) {
	agents, err := r.teams.GetAgents(ctx, room.ID)
	if err != nil || len(agents) == 0 {
		return
	}

	state, err := r.auctions.State(ctx, room.ID)
	if err != nil {
		return
	}

	if state.Idle() {
		r.runNomination(ctx, room, agents)
		return
	}
	if state.Phase == models.PhaseBidding {
		r.runBidding(ctx, room, state, agents)
	}
}

// runNomination lets one randomly chosen agent bring a player to the block.
// Picking a single agent per tick keeps idle rooms from stampeding.
func (r *Runner) runNomination(ctx context.Context, room *models.Room, agents []*models.Team) {
	team := agents[rand.Intn(len(agents))]
	if team.SlotsLeft <= 0 {
		return
	}

	available, err := r.players.GetAvailableForRoom(ctx, room.ID)
	if err != nil || len(available) == 0 {
		return
	}
	roster, err := r.auctions.Roster(ctx, room.ID)
	if err != nil {
		return
	}

	decision, err := r.provider.Nominate(ctx, NominationContext{
		Room:      room,
		Team:      team,
		Available: available,
		Roster:    roster,
	})
	if err != nil {
		slog.Warn("Agent nomination provider failed",
			slog.String("type", "ai"),
			slog.String("team_id", team.ID.String()),
			slog.String("error", err.Error()))
		return
	}
	if decision.Action != ActionNominate {
		return
	}

	r.pause(ctx, r.cfg.NominationDelay)

	_, err = r.engine.Nominate(ctx, room.ID, decision.PlayerID, team.ID, decision.Amount)
	if err != nil {
		r.logOutcome(team.ID, "nominate", err)
		return
	}

	slog.Info("Agent nominated",
		slog.String("type", "ai"),
		slog.String("team_id", team.ID.String()),
		slog.String("player_id", decision.PlayerID.String()),
		slog.String("rationale", decision.Rationale))
}

func (r *Runner) runBidding(ctx context.Context, room *models.Room, state *models.AuctionState, agents []*models.Team) {
	if state.CurrentPlayerID == nil {
		return
	}
	// Never bid so close to the deadline that the raise lands after expiry.
	if state.Deadline != nil && time.Until(*state.Deadline) < r.cfg.BidWindow {
		return
	}

	player, err := r.players.GetByID(ctx, *state.CurrentPlayerID)
	if err != nil {
		return
	}

	for _, team := range agents {
		// Re-read per agent so later agents see the raise an earlier one made.
		st, err := r.auctions.State(ctx, room.ID)
		if err != nil || st.Phase != models.PhaseBidding {
			return
		}

		decision, err := r.provider.Bid(ctx, BidContext{
			Room:    room,
			Team:    team,
			Player:  player,
			State:   st,
			MinNext: auction.MinNextBid(st.HighBid),
		})
		if err != nil {
			slog.Warn("Agent bid provider failed",
				slog.String("type", "ai"),
				slog.String("team_id", team.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		if decision.Action != ActionBid {
			continue
		}

		r.pause(ctx, r.jitter())

		if _, err := r.engine.Bid(ctx, room.ID, team.ID, decision.Amount); err != nil {
			r.logOutcome(team.ID, "bid", err)
			continue
		}

		slog.Info("Agent bid placed",
			slog.String("type", "ai"),
			slog.String("team_id", team.ID.String()),
			slog.String("amount", decision.Amount.String()),
			slog.String("rationale", decision.Rationale))
	}
}

func (r *Runner) jitter() time.Duration {
	if r.cfg.Jitter <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(r.cfg.Jitter)))
}

func (r *Runner) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// logOutcome demotes expected race losses to debug; anything else warns.
func (r *Runner) logOutcome(teamID uuid.UUID, op string, err error) {
	switch auction.KindOf(err) {
	case auction.KindSuperseded, auction.KindInvalidPhase, auction.KindWindowExpired,
		auction.KindBidTooLow, auction.KindPriceTooLow, auction.KindItemAlreadySold:
		slog.Debug("Agent action lost the race",
			slog.String("type", "ai"),
			slog.String("op", op),
			slog.String("team_id", teamID.String()),
			slog.String("reason", err.Error()))
	default:
		slog.Warn("Agent action failed",
			slog.String("type", "ai"),
			slog.String("op", op),
			slog.String("team_id", teamID.String()),
			slog.String("error", err.Error()))
	}
}
