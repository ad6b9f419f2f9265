package server

import (
	"log"

	"github.com/swaqvalley/freeorion/internal/networking"
)

// idleState accepts the very first request from the host-to-be. Nothing else
// is legal before a host exists.
type idleState struct {
	app *App
}

func (s *idleState) stateName() string { return "Idle" }

func (s *idleState) react(ev Event) (state, bool) {
	switch ev := ev.(type) {
	case HostMPGame:
		pc := ev.Conn
		pc.EstablishPlayer(networking.HostPlayerID, ev.PlayerName, true)
		pc.SendMessage(networking.New(networking.TypeHostMPAck, networking.HostPlayerID, pc.ID(),
			networking.AckPayload{PlayerID: pc.ID()}))
		pc.SendMessage(networking.New(networking.TypeJoinAck, networking.HostPlayerID, pc.ID(),
			networking.AckPayload{PlayerID: pc.ID()}))
		s.app.singlePlayer = false
		log.Printf("player %q hosts a multiplayer game", ev.PlayerName)
		return newMPLobby(s.app), true

	case HostSPGame:
		pc := ev.Conn
		pc.EstablishPlayer(networking.HostPlayerID, ev.Setup.HostPlayerName, true)
		pc.SendMessage(networking.New(networking.TypeHostSPAck, networking.HostPlayerID, pc.ID(),
			networking.AckPayload{PlayerID: pc.ID()}))
		pc.SendMessage(networking.New(networking.TypeJoinAck, networking.HostPlayerID, pc.ID(),
			networking.AckPayload{PlayerID: pc.ID()}))
		s.app.singlePlayer = true
		log.Printf("player %q hosts a single-player game", ev.Setup.HostPlayerName)
		joiners := newWaitingForSPJoiners(s.app, ev.Setup)
		if joiners.ready {
			return newTurnIdle(s.app), true
		}
		return joiners, true
	}
	return nil, false
}
