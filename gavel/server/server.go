package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gavelhouse/gavel/gavel"
	"github.com/gavelhouse/gavel/gavel/auction"
	"github.com/gavelhouse/gavel/gavel/database/repositories"
	"github.com/gavelhouse/gavel/gavel/services"
)

// Server is the HTTP surface of the auction daemon. Every mutating auction
// route goes through the engine so HTTP callers and agent teams obey the
// same arbitration.
type Server struct {
	app      *fiber.App
	engine   *auction.Engine
	rooms    repositories.RoomRepository
	teams    repositories.TeamRepository
	players  repositories.PlayerRepository
	auctions repositories.AuctionRepository
	search   *services.SearchService
	defaults gavel.AuctionConfig
}

func New(
	engine *auction.Engine,
	rooms repositories.RoomRepository,
	teams repositories.TeamRepository,
	players repositories.PlayerRepository,
	auctions repositories.AuctionRepository,
	search *services.SearchService,
	defaults gavel.AuctionConfig,
) *Server {
	s := &Server{
		engine:   engine,
		rooms:    rooms,
		teams:    teams,
		players:  players,
		auctions: auctions,
		search:   search,
		defaults: defaults,
	}

	app := fiber.New(fiber.Config{
		AppName:      "Gavel",
		ServerHeader: "Gavel",
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(loggingMiddleware())

	s.app = app
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.handleHealth)

	api := s.app.Group("/api")

	api.Get("/players", s.handleSearchPlayers)

	rooms := api.Group("/rooms")
	rooms.Post("/", s.handleCreateRoom)
	rooms.Get("/code/:code", s.handleRoomByCode)
	rooms.Post("/:id/join", s.handleJoinRoom)
	rooms.Post("/:id/start", s.handleStartRoom)
	rooms.Post("/:id/agents", s.handleAddAgents)

	rooms.Get("/:id/state", s.handleRoomState)
	rooms.Get("/:id/teams", s.handleRoomTeams)
	rooms.Get("/:id/roster", s.handleRoomRoster)
	rooms.Get("/:id/bids", s.handleRoomBids)
	rooms.Get("/:id/unsold", s.handleRoomUnsold)
	rooms.Get("/:id/players", s.handleAvailablePlayers)

	rooms.Post("/:id/nominate", s.handleNominate)
	rooms.Post("/:id/bid", s.handleBid)
	rooms.Post("/:id/finalize", s.handleFinalize)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) Listen(address string) error {
	slog.Info("HTTP server listening",
		slog.String("type", "http"),
		slog.String("address", address))
	return s.app.Listen(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
