// Package auth mints and verifies join grants for server-spawned AI clients.
//
// When the session automaton pre-spawns AI processes it hands each one a
// short-lived signed grant. The transport verifies the grant during the
// websocket handshake, before the automaton ever sees the join request, so
// an arbitrary peer cannot claim an expected AI slot.
package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/swaqvalley/freeorion/internal/platform/errors"
)

const (
	grantIssuer   = "freeorion-server"
	grantAudience = "freeorion-ai"
	grantTTL      = 10 * time.Minute
)

// grantClaims is the internal claims type used for JWT parsing.
type grantClaims struct {
	jwt.RegisteredClaims
	PlayerName string `json:"player_name"`
}

// JoinGrantIssuer mints and verifies AI join grants with an in-process
// EdDSA keypair generated at server startup.
type JoinGrantIssuer struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
	now  func() time.Time
}

// NewJoinGrantIssuer generates a fresh keypair for this server session.
func NewJoinGrantIssuer(now func() time.Time) (*JoinGrantIssuer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate join grant keypair: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &JoinGrantIssuer{priv: priv, pub: pub, now: now}, nil
}

// Mint issues a grant for the expected AI player name.
func (i *JoinGrantIssuer) Mint(playerName string) (string, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return "", fmt.Errorf("player name is required")
	}
	issued := i.now().UTC()
	claims := grantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    grantIssuer,
			Audience:  jwt.ClaimStrings{grantAudience},
			ExpiresAt: jwt.NewNumericDate(issued.Add(grantTTL)),
			IssuedAt:  jwt.NewNumericDate(issued),
			ID:        uuid.NewString(),
		},
		PlayerName: playerName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(i.priv)
	if err != nil {
		return "", fmt.Errorf("sign join grant: %w", err)
	}
	return signed, nil
}

// VerifyName checks a presented grant and returns the AI player name it was
// minted for.
func (i *JoinGrantIssuer) VerifyName(grant string) (string, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return "", apperrors.New(apperrors.CodeGrantInvalid, "join grant is required")
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return i.pub, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeGrantInvalid, "parse join grant", err)
	}

	if parsed.Issuer != grantIssuer {
		return "", apperrors.WithMetadata(
			apperrors.CodeGrantMismatch,
			"join grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, grantAudience) {
		return "", apperrors.WithMetadata(
			apperrors.CodeGrantMismatch,
			"join grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}
	if parsed.ID == "" {
		return "", apperrors.New(apperrors.CodeGrantInvalid, "join grant jti is required")
	}
	name := strings.TrimSpace(parsed.PlayerName)
	if name == "" {
		return "", apperrors.New(apperrors.CodeGrantInvalid, "join grant player name is required")
	}
	return name, nil
}

// Verify checks a presented grant, discarding the bound player name. It
// satisfies the transport's GrantVerifier contract.
func (i *JoinGrantIssuer) Verify(grant string) error {
	_, err := i.VerifyName(grant)
	return err
}

func audienceContains(audience jwt.ClaimStrings, want string) bool {
	for _, entry := range audience {
		if entry == want {
			return true
		}
	}
	return false
}
