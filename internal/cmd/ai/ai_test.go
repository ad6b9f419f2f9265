package ai

import (
	"context"
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("ai", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.ServerAddr != "127.0.0.1:12346" {
		t.Fatalf("server addr = %q, want default", cfg.ServerAddr)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("ai", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-server", "127.0.0.1:9999", "-name", "AI_7", "-grant", "token"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.ServerAddr != "127.0.0.1:9999" || cfg.PlayerName != "AI_7" || cfg.JoinGrant != "token" {
		t.Fatalf("cfg = %+v, want overrides applied", cfg)
	}
}

func TestRunRequiresPlayerName(t *testing.T) {
	err := Run(context.Background(), Config{ServerAddr: "127.0.0.1:0"})
	if err == nil {
		t.Fatal("run without a player name did not error")
	}
}
