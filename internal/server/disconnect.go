package server

import (
	"log"

	"github.com/swaqvalley/freeorion/internal/networking"
)

// HandleNonLobbyDisconnection is the fallback for connection loss in every
// state past the lobby. Losing the host ends the session; losing a player who
// had not already resigned notifies everyone that the game cannot continue.
func (a *App) HandleNonLobbyDisconnection(pc *networking.PlayerConnection) {
	if pc.Host() {
		for _, other := range a.registry.Established() {
			if other.ID() == pc.ID() {
				continue
			}
			other.SendMessage(networking.New(networking.TypePlayerDisconnected, pc.ID(), other.ID(),
				networking.NamePayload{PlayerName: pc.PlayerName()}))
			other.SendMessage(networking.New(networking.TypeServerEndGame, networking.HostPlayerID, other.ID(), nil))
		}
		log.Printf("host %q disconnected, shutting down", pc.PlayerName())
		a.Exit(1)
		return
	}

	if !a.losers[pc.ID()] {
		for _, other := range a.registry.Established() {
			if other.ID() == pc.ID() {
				continue
			}
			other.SendMessage(networking.New(networking.TypePlayerDisconnected, pc.ID(), other.ID(),
				networking.NamePayload{PlayerName: pc.PlayerName()}))
			other.SendMessage(networking.New(networking.TypeServerEndGame, networking.HostPlayerID, other.ID(), nil))
		}
	}
	log.Printf("player %q disconnected", pc.PlayerName())
	a.registry.Remove(pc)

	if a.OnlyAIsRemain() {
		log.Printf("no human players remain, shutting down")
		a.Exit(1)
	}
}
