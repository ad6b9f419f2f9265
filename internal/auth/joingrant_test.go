package auth

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/swaqvalley/freeorion/internal/platform/errors"
)

func TestMintAndVerifyRoundTrip(t *testing.T) {
	issuer, err := NewJoinGrantIssuer(nil)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	grant, err := issuer.Mint("AI_1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	name, err := issuer.VerifyName(grant)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if name != "AI_1" {
		t.Fatalf("player name = %q, want AI_1", name)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	minter, err := NewJoinGrantIssuer(nil)
	if err != nil {
		t.Fatalf("new minter: %v", err)
	}
	verifier, err := NewJoinGrantIssuer(nil)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	grant, err := minter.Mint("AI_1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := verifier.Verify(grant); err == nil {
		t.Fatal("expected signature verification to fail across keypairs")
	}
}

func TestVerifyRejectsExpiredGrant(t *testing.T) {
	minted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := minted
	issuer, err := NewJoinGrantIssuer(func() time.Time { return clock })
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	grant, err := issuer.Mint("AI_1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	clock = minted.Add(grantTTL + time.Minute)
	if _, err := issuer.VerifyName(grant); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestVerifyRejectsEmptyGrant(t *testing.T) {
	issuer, err := NewJoinGrantIssuer(nil)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	err = issuer.Verify("")
	if !errors.Is(err, apperrors.New(apperrors.CodeGrantInvalid, "")) {
		t.Fatalf("error code = %v, want %s", err, apperrors.CodeGrantInvalid)
	}
}
