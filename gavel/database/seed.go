package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gavelhouse/gavel/gavel/database/models"
)

type seedPlayer struct {
	Name      string
	Role      models.PlayerRole
	Country   string
	BasePrice float64
	Overseas  bool
	Marquee   bool
}

var defaultCatalog = []seedPlayer{
	{"Arjun Mehta", models.RoleBatter, "India", 2.0, false, true},
	{"Dev Kulkarni", models.RolePacer, "India", 1.5, false, false},
	{"Rohan Iyer", models.RoleKeeper, "India", 1.0, false, false},
	{"Samar Chauhan", models.RoleSpinner, "India", 0.75, false, false},
	{"Kabir Nair", models.RoleAllRounder, "India", 2.0, false, true},
	{"Liam Carter", models.RoleBatter, "Australia", 2.0, true, true},
	{"Marcus Reid", models.RolePacer, "Australia", 1.5, true, false},
	{"Theo Wallace", models.RoleAllRounder, "England", 1.75, true, true},
	{"Finn Baxter", models.RoleSpinner, "England", 1.0, true, false},
	{"Ruan Botha", models.RolePacer, "South Africa", 1.25, true, false},
	{"Keshav Rana", models.RoleBatter, "India", 0.5, false, false},
	{"Imran Shaikh", models.RolePacer, "India", 0.5, false, false},
	{"Dale Munro", models.RoleKeeper, "New Zealand", 0.75, true, false},
	{"Vihaan Joshi", models.RoleSpinner, "India", 0.4, false, false},
	{"Jude Hampton", models.RoleBatter, "West Indies", 1.5, true, true},
	{"Aditya Verma", models.RoleAllRounder, "India", 0.6, false, false},
}

// InitializePlayerData seeds the player catalog on first boot. Existing
// catalogs are left untouched.
func (db *DB) InitializePlayerData(ctx context.Context) error {
	count, err := db.bunDB.NewSelect().
		Model((*models.Player)(nil)).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count players: %w", err)
	}
	if count > 0 {
		slog.Info("Player catalog already initialized, skipping",
			slog.String("type", "db"),
			slog.Int("players", count))
		return nil
	}

	players := make([]*models.Player, 0, len(defaultCatalog))
	for _, sp := range defaultCatalog {
		players = append(players, &models.Player{
			ID:         uuid.New(),
			Name:       sp.Name,
			Role:       sp.Role,
			Country:    sp.Country,
			BasePrice:  decimal.NewFromFloat(sp.BasePrice),
			IsOverseas: sp.Overseas,
			IsMarquee:  sp.Marquee,
		})
	}

	if _, err := db.bunDB.NewInsert().Model(&players).Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed player catalog: %w", err)
	}

	slog.Info("Player catalog seeded",
		slog.String("type", "db"),
		slog.Int("players", len(players)))

	return nil
}
