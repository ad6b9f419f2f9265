// Package ai parses AI client command flags and runs one computer player.
package ai

import (
	"context"
	"flag"
	"fmt"

	"github.com/swaqvalley/freeorion/internal/aiclient"
	entrypoint "github.com/swaqvalley/freeorion/internal/platform/cmd"
)

// Config holds AI client command configuration. The spawning server fills the
// environment; flags exist for running an AI by hand against a live server.
type Config struct {
	ServerAddr string `env:"FREEORION_AI_SERVER_ADDR" envDefault:"127.0.0.1:12346"`
	PlayerName string `env:"FREEORION_AI_PLAYER_NAME"`
	JoinGrant  string `env:"FREEORION_AI_JOIN_GRANT"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "The game server address to dial")
	fs.StringVar(&cfg.PlayerName, "name", cfg.PlayerName, "The player name to join under")
	fs.StringVar(&cfg.JoinGrant, "grant", cfg.JoinGrant, "The join grant minted by the server")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run plays one AI session to completion.
func Run(ctx context.Context, cfg Config) error {
	if cfg.PlayerName == "" {
		return fmt.Errorf("player name is required")
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAI, func(ctx context.Context) error {
		client := aiclient.New(cfg.ServerAddr, cfg.PlayerName, cfg.JoinGrant)
		return client.Run(ctx)
	})
}
