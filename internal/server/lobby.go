package server

import (
	"log"

	"github.com/swaqvalley/freeorion/internal/game"
	"github.com/swaqvalley/freeorion/internal/networking"
	apperrors "github.com/swaqvalley/freeorion/internal/platform/errors"
	"github.com/swaqvalley/freeorion/internal/savegame"
)

// mpLobbyState negotiates a multiplayer game: joiners come and go, the host
// and clients mutate the shared lobby data, and the host eventually launches.
type mpLobbyState struct {
	app   *App
	lobby *game.LobbyData
}

// newMPLobby opens the lobby, seeds the roster with the host, and sends the
// host the initial lobby snapshot.
func newMPLobby(app *App) *mpLobbyState {
	s := &mpLobbyState{app: app, lobby: game.NewLobbyData()}
	s.lobby.SaveGames = app.ListSaves()

	host := app.registry.Player(networking.HostPlayerID)
	if host != nil {
		s.lobby.Players = append(s.lobby.Players, game.NewPlayerSetupData(host.ID(), host.PlayerName()))
		host.SendMessage(networking.New(networking.TypeServerLobbyUpdate, networking.HostPlayerID, host.ID(), s.lobby))
	}
	return s
}

func (s *mpLobbyState) stateName() string { return "MPLobby" }

func (s *mpLobbyState) broadcastLobby(except ...int) {
	for _, pc := range s.app.registry.Established() {
		skip := false
		for _, id := range except {
			if pc.ID() == id {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		pc.SendMessage(networking.New(networking.TypeServerLobbyUpdate, networking.HostPlayerID, pc.ID(), s.lobby))
	}
}

func (s *mpLobbyState) react(ev Event) (state, bool) {
	switch ev := ev.(type) {
	case JoinGame:
		return s.onJoin(ev)
	case LobbyUpdate:
		return s.onUpdate(ev)
	case LobbyChat:
		return s.onChat(ev)
	case LobbyHostAbort:
		return s.onHostAbort(ev)
	case LobbyNonHostExit:
		return s.onNonHostExit(ev)
	case StartMPGame:
		return s.onStart(ev)
	case Disconnection:
		return s.onDisconnection(ev)
	}
	return nil, false
}

func (s *mpLobbyState) onJoin(ev JoinGame) (state, bool) {
	id := s.app.NextPlayerID()
	ev.Conn.EstablishPlayer(id, ev.PlayerName, false)
	ev.Conn.SendMessage(networking.New(networking.TypeJoinAck, networking.HostPlayerID, id,
		networking.AckPayload{PlayerID: id}))

	s.lobby.Players = append(s.lobby.Players, game.NewPlayerSetupData(id, ev.PlayerName))
	s.broadcastLobby()
	log.Printf("player %q joined the lobby as %d", ev.PlayerName, id)
	return nil, true
}

func (s *mpLobbyState) onUpdate(ev LobbyUpdate) (state, bool) {
	changed := s.lobby.Merge(ev.Data)
	if changed {
		s.lobby.SaveGameEmpires = nil
		if file, ok := s.lobby.SelectedSaveFile(); ok {
			headers, err := s.app.SaveEmpireHeaders(file)
			if err != nil {
				log.Printf("read empire headers from %s: %v", file, err)
			} else {
				s.lobby.SaveGameEmpires = headers
			}
		}
	}

	// The sender already holds this revision unless the save-file selection
	// moved, which invalidates its empire choices.
	if changed {
		s.broadcastLobby()
	} else {
		s.broadcastLobby(ev.Conn.ID())
	}
	return nil, true
}

func (s *mpLobbyState) onChat(ev LobbyChat) (state, bool) {
	relay := networking.New(networking.TypeServerLobbyChat, ev.Conn.ID(), ev.Receiver,
		networking.TextPayload{Text: ev.Text})
	if ev.Receiver == networking.Broadcast {
		s.app.registry.Broadcast(relay, ev.Conn.ID())
	} else {
		s.app.registry.SendTo(ev.Receiver, relay)
	}
	return nil, true
}

func (s *mpLobbyState) onHostAbort(ev LobbyHostAbort) (state, bool) {
	if !ev.Conn.Host() {
		log.Printf("player %d sent a host abort without being host", ev.Conn.ID())
		return nil, true
	}

	for _, pc := range s.app.registry.Established() {
		if pc.ID() == ev.Conn.ID() {
			continue
		}
		pc.SendMessage(networking.New(networking.TypeServerLobbyAbort, networking.HostPlayerID, pc.ID(), nil))
		s.app.registry.Remove(pc)
	}

	kept := s.lobby.Players[:0]
	for _, entry := range s.lobby.Players {
		if entry.PlayerID == networking.HostPlayerID {
			kept = append(kept, entry)
		}
	}
	s.lobby.Players = kept
	log.Printf("host aborted the lobby; %d connections dropped", s.app.registry.NumEstablished())
	return nil, true
}

func (s *mpLobbyState) onNonHostExit(ev LobbyNonHostExit) (state, bool) {
	if ev.Conn.Host() {
		log.Printf("host %d sent a non-host lobby exit", ev.Conn.ID())
		return nil, true
	}
	s.dropLobbyPlayer(ev.Conn, networking.TypeServerLobbyExit)
	return nil, true
}

// dropLobbyPlayer removes a non-host player from the roster by position,
// notifies everyone else with the given message type, and closes the socket.
func (s *mpLobbyState) dropLobbyPlayer(pc *networking.PlayerConnection, notice networking.Type) {
	for i, other := range s.app.registry.Established() {
		if other.ID() == pc.ID() {
			s.lobby.RemovePlayerAt(i)
			break
		}
	}
	for _, other := range s.app.registry.Established() {
		if other.ID() == pc.ID() {
			continue
		}
		other.SendMessage(networking.New(notice, pc.ID(), other.ID(), nil))
	}
	s.app.registry.Remove(pc)
}

func (s *mpLobbyState) onStart(ev StartMPGame) (state, bool) {
	if !ev.Conn.Host() {
		s.app.Fail(ev.Conn, apperrors.New(apperrors.CodeNotHost, "only the host may start the game"))
		return nil, true
	}

	if s.lobby.NewGame {
		// Leave-lobby notice; game data follows once the quorum is full.
		for _, pc := range s.app.registry.Established() {
			if pc.Host() {
				continue
			}
			pc.SendMessage(networking.New(networking.TypeGameStart, networking.HostPlayerID, pc.ID(), nil))
		}
		expected := s.app.registry.NumEstablished() + len(s.lobby.AIs)
		if s.app.registry.NumEstablished() == expected {
			if err := s.app.NewGameInit(s.lobby.Galaxy, rosterFromLobby(s.lobby)); err != nil {
				log.Printf("initialize new game: %v", err)
				s.app.Exit(1)
				return nil, true
			}
			return newTurnIdle(s.app), true
		}
		return newWaitingForMPJoiners(s.app, s.lobby, nil), true
	}

	file, ok := s.lobby.SelectedSaveFile()
	if !ok {
		log.Printf("host started a loaded game without selecting a save file")
		return nil, true
	}
	loaded, err := s.app.LoadSave(file)
	if err != nil {
		log.Printf("load save %s: %v", file, err)
		return nil, true
	}
	renameLoadedEmpires(loaded, s.lobby, s.app.registry)

	for _, pc := range s.app.registry.Established() {
		if pc.ID() == ev.Conn.ID() {
			continue
		}
		pc.SendMessage(networking.New(networking.TypeGameStart, networking.HostPlayerID, pc.ID(), nil))
	}

	if len(loaded.Players) == s.app.registry.NumEstablished() {
		if err := s.app.LoadGameInit(loaded); err != nil {
			log.Printf("initialize loaded game: %v", err)
			s.app.Exit(1)
			return nil, true
		}
		return newTurnIdle(s.app), true
	}
	return newWaitingForMPJoiners(s.app, s.lobby, loaded), true
}

// rosterFromLobby flattens the negotiated roster, humans and AIs alike, so
// game initialization can look up custom empire names and colors.
func rosterFromLobby(lobby *game.LobbyData) []game.PlayerSetupData {
	roster := make([]game.PlayerSetupData, 0, len(lobby.Players)+len(lobby.AIs))
	roster = append(roster, lobby.Players...)
	roster = append(roster, lobby.AIs...)
	return roster
}

// renameLoadedEmpires rewrites the player names in loaded save bundles to the
// connected players who claimed those empires in the lobby.
func renameLoadedEmpires(loaded *savegame.Game, lobby *game.LobbyData, registry *networking.Registry) {
	for i := range loaded.Players {
		empire := loaded.Players[i].Empire
		if empire == nil {
			continue
		}
		for _, entry := range lobby.Players {
			if entry.SaveGameEmpireID != empire.ID {
				continue
			}
			pc := registry.Player(entry.PlayerID)
			if pc == nil {
				continue
			}
			loaded.Players[i].PlayerName = pc.PlayerName()
			empire.PlayerName = pc.PlayerName()
		}
	}
}

func (s *mpLobbyState) onDisconnection(ev Disconnection) (state, bool) {
	if ev.Conn.Host() {
		for _, pc := range s.app.registry.Established() {
			if pc.ID() == ev.Conn.ID() {
				continue
			}
			pc.SendMessage(networking.New(networking.TypeServerLobbyAbort, networking.HostPlayerID, pc.ID(), nil))
		}
		log.Printf("lobby host %q disconnected, shutting down", ev.Conn.PlayerName())
		s.app.Exit(1)
		return nil, true
	}

	s.dropLobbyPlayer(ev.Conn, networking.TypeServerLobbyExit)
	log.Printf("player %q left the lobby", ev.Conn.PlayerName())

	if s.app.OnlyAIsRemain() {
		log.Printf("no human players remain in the lobby, shutting down")
		s.app.Exit(1)
	}
	return nil, true
}
