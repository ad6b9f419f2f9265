package server

import (
	"log"

	"github.com/swaqvalley/freeorion/internal/game"
	"github.com/swaqvalley/freeorion/internal/networking"
	apperrors "github.com/swaqvalley/freeorion/internal/platform/errors"
	"github.com/swaqvalley/freeorion/internal/savegame"
)

// joinerGate is the part shared by both pre-game joining states: admitting
// arrivals against an expected headcount and a set of outstanding AI names.
type joinerGate struct {
	app             *App
	expectedAINames map[string]bool
	numExpected     int
}

// admit establishes a joining connection. AI processes must present the name
// they were spawned under over a granted connection; humans fill whatever
// seats the expected AI names do not claim. Reports whether the expected
// headcount is now complete.
func (g *joinerGate) admit(ev JoinGame) (full bool) {
	switch {
	case g.expectedAINames[ev.PlayerName] && ev.Conn.ViaGrant():
		id := g.app.NextPlayerID()
		ev.Conn.EstablishPlayer(id, ev.PlayerName, false)
		ev.Conn.SendMessage(networking.New(networking.TypeJoinAck, networking.HostPlayerID, id,
			networking.AckPayload{PlayerID: id}))
		delete(g.expectedAINames, ev.PlayerName)
		g.app.aiIDs[id] = true
		log.Printf("AI client %q joined as player %d", ev.PlayerName, id)

	case g.app.registry.NumEstablished()+len(g.expectedAINames) < g.numExpected:
		id := g.app.NextPlayerID()
		ev.Conn.EstablishPlayer(id, ev.PlayerName, false)
		ev.Conn.SendMessage(networking.New(networking.TypeJoinAck, networking.HostPlayerID, id,
			networking.AckPayload{PlayerID: id}))
		log.Printf("player %q joined as player %d", ev.PlayerName, id)

	default:
		g.app.Fail(ev.Conn, apperrors.WithMetadata(apperrors.CodeJoinRefused, "game is full",
			map[string]string{"PlayerName": ev.PlayerName}))
	}
	return g.app.registry.NumEstablished() == g.numExpected
}

// waitingForSPJoinersState holds a hosted single-player game until the
// spawned AI clients have all joined, then initializes it.
type waitingForSPJoinersState struct {
	joinerGate
	setup  game.SinglePlayerSetupData
	loaded *savegame.Game

	// ready is set when the expected headcount was already met at entry, so
	// the caller transitions straight into active play.
	ready bool
}

func newWaitingForSPJoiners(app *App, setup game.SinglePlayerSetupData) *waitingForSPJoinersState {
	s := &waitingForSPJoinersState{
		joinerGate: joinerGate{app: app},
		setup:      setup,
	}
	if setup.NewGame {
		s.numExpected = setup.AIs + 1
		s.expectedAINames = app.CreateAIClients(setup.AIs)
	} else {
		loaded, err := app.LoadSave(setup.Filename)
		if err != nil {
			log.Printf("load save %s: %v", setup.Filename, err)
			app.Exit(1)
			return s
		}
		s.loaded = loaded
		s.loaded.RenameHost(setup.HostPlayerName)
		s.numExpected = len(loaded.Players)
		if shortfall := s.numExpected - app.registry.NumEstablished(); shortfall > 0 {
			// A mid-game reload keeps already connected AI clients; only the
			// missing seats get fresh processes.
			s.expectedAINames = app.CreateAIClients(shortfall)
		}
	}

	if s.numExpected == app.registry.NumEstablished() {
		// No AIs to wait for; the quorum check in react never fires, so
		// initialize immediately and let the caller skip this state.
		s.initialize()
		s.ready = true
	}
	return s
}

func (s *waitingForSPJoinersState) stateName() string { return "WaitingForSPGameJoiners" }

func (s *waitingForSPJoinersState) initialize() {
	var err error
	if s.setup.NewGame {
		host := game.PlayerSetupData{
			PlayerID:    networking.HostPlayerID,
			PlayerName:  s.setup.HostPlayerName,
			EmpireName:  s.setup.EmpireName,
			EmpireColor: s.setup.EmpireColor,
		}
		err = s.app.NewGameInit(s.setup.Galaxy, []game.PlayerSetupData{host})
	} else {
		err = s.app.LoadGameInit(s.loaded)
	}
	if err != nil {
		log.Printf("initialize single-player game: %v", err)
		s.app.Exit(1)
	}
}

func (s *waitingForSPJoinersState) react(ev Event) (state, bool) {
	join, ok := ev.(JoinGame)
	if !ok {
		return nil, false
	}
	if s.admit(join) {
		s.initialize()
		return newTurnIdle(s.app), true
	}
	return nil, true
}

// waitingForMPJoinersState holds a launched multiplayer game until the
// expected AI clients (and, for loaded games, returning humans) are in.
type waitingForMPJoinersState struct {
	joinerGate
	lobby  *game.LobbyData
	loaded *savegame.Game
}

func newWaitingForMPJoiners(app *App, lobby *game.LobbyData, loaded *savegame.Game) *waitingForMPJoinersState {
	s := &waitingForMPJoinersState{
		joinerGate: joinerGate{app: app},
		lobby:      lobby,
		loaded:     loaded,
	}
	if loaded == nil {
		s.numExpected = app.registry.NumEstablished() + len(lobby.AIs)
		s.expectedAINames = app.CreateAIClients(len(lobby.AIs))
	} else {
		s.numExpected = len(loaded.Players)
		s.expectedAINames = app.CreateAIClients(s.numExpected - app.registry.NumEstablished())
	}
	return s
}

func (s *waitingForMPJoinersState) stateName() string { return "WaitingForMPGameJoiners" }

func (s *waitingForMPJoinersState) react(ev Event) (state, bool) {
	join, ok := ev.(JoinGame)
	if !ok {
		return nil, false
	}
	if s.admit(join) {
		var err error
		if s.loaded == nil {
			err = s.app.NewGameInit(s.lobby.Galaxy, rosterFromLobby(s.lobby))
		} else {
			err = s.app.LoadGameInit(s.loaded)
		}
		if err != nil {
			log.Printf("initialize multiplayer game: %v", err)
			s.app.Exit(1)
			return nil, true
		}
		return newTurnIdle(s.app), true
	}
	return nil, true
}
