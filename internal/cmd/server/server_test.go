package server

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != ":12346" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, ":12346")
	}
	if cfg.SaveDir != "saves" {
		t.Fatalf("save dir = %q, want %q", cfg.SaveDir, "saves")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-addr", "127.0.0.1:9999", "-save-dir", "/tmp/saves", "-ai-binary", "./my-ai"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("addr = %q, want override", cfg.Addr)
	}
	if cfg.SaveDir != "/tmp/saves" {
		t.Fatalf("save dir = %q, want override", cfg.SaveDir)
	}
	if cfg.AIBinary != "./my-ai" {
		t.Fatalf("ai binary = %q, want override", cfg.AIBinary)
	}
}

func TestDialAddr(t *testing.T) {
	if got := dialAddr(":12346"); got != "127.0.0.1:12346" {
		t.Fatalf("dialAddr(\":12346\") = %q", got)
	}
	if got := dialAddr("10.0.0.5:12346"); got != "10.0.0.5:12346" {
		t.Fatalf("dialAddr with host = %q, want unchanged", got)
	}
}
