// Package server parses game server command flags and runs the session.
package server

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/swaqvalley/freeorion/internal/auth"
	"github.com/swaqvalley/freeorion/internal/networking"
	entrypoint "github.com/swaqvalley/freeorion/internal/platform/cmd"
	gameserver "github.com/swaqvalley/freeorion/internal/server"
)

// Config holds server command configuration.
type Config struct {
	Addr     string `env:"FREEORION_SERVER_ADDR" envDefault:":12346"`
	SaveDir  string `env:"FREEORION_SAVE_DIR" envDefault:"saves"`
	AIBinary string `env:"FREEORION_AI_BINARY" envDefault:"freeorion-ai"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The server listen address")
	fs.StringVar(&cfg.SaveDir, "save-dir", cfg.SaveDir, "Directory holding save files")
	fs.StringVar(&cfg.AIBinary, "ai-binary", cfg.AIBinary, "AI client executable to spawn")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game server: transport, join grants, and the session
// automaton. It returns when the session ends or ctx is canceled; a session
// that ended abnormally (host loss, no humans left) is reported as an error.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		grants, err := auth.NewJoinGrantIssuer(time.Now)
		if err != nil {
			return err
		}
		transport := networking.NewServer(grants)
		registry := networking.NewRegistry()

		exitCh := make(chan int, 1)
		app := gameserver.NewApp(registry, cfg.SaveDir, dialAddr(cfg.Addr), grants,
			&gameserver.ExecSpawner{Binary: cfg.AIBinary},
			func(code int) {
				select {
				case exitCh <- code:
				default:
				}
			})
		fsm := gameserver.NewFSM(app)

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- transport.ListenAndServe(runCtx, cfg.Addr)
		}()
		go fsm.Run(runCtx, transport.Inbox())

		select {
		case <-ctx.Done():
			return nil
		case err := <-serveErr:
			return err
		case code := <-exitCh:
			cancel()
			if code != 0 {
				return fmt.Errorf("session ended with status %d", code)
			}
			return nil
		}
	})
}

// dialAddr turns a listen address into one spawned AI clients can dial: a
// bare port binds all interfaces but is dialed through loopback.
func dialAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	return addr
}
