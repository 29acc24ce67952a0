package gavel

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	DB      DBConfig      `toml:"db"`
	Auction AuctionConfig `toml:"auction"`
	Agent   AgentConfig   `toml:"agent"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

// AuctionConfig carries room defaults applied when a room is created
// without explicit overrides.
type AuctionConfig struct {
	DefaultPurse             float64 `toml:"default_purse"`
	DefaultSquadMin          int     `toml:"default_squad_min"`
	DefaultSquadMax          int     `toml:"default_squad_max"`
	DefaultOverseasMax       int     `toml:"default_overseas_max"`
	DefaultNominationSeconds int     `toml:"default_nomination_seconds"`
	DefaultBidSeconds        int     `toml:"default_bid_seconds"`
}

type AgentConfig struct {
	TickInterval      time.Duration `toml:"tick_interval"`
	NominationDelayMS int           `toml:"nomination_delay_ms"`
	BidWindowMS       int           `toml:"bid_window_ms"`
	JitterMS          int           `toml:"jitter_ms"`
}
