package server

import (
	"log"

	"github.com/swaqvalley/freeorion/internal/networking"
	"github.com/swaqvalley/freeorion/internal/savegame"
)

// waitingForSaveDataState collects one save bundle from every established
// player. The checkpoint commits only when the set of responders equals the
// set of players asked; everything else about the turn keeps working.
type waitingForSaveDataState struct {
	turnBase
	needed    map[int]bool
	responded map[int]bool
	bundles   []savegame.PlayerSaveGameData
}

// newWaitingForSaveData snapshots who must answer and asks them all.
func newWaitingForSaveData(app *App) *waitingForSaveDataState {
	s := &waitingForSaveDataState{
		turnBase:  turnBase{app: app},
		needed:    make(map[int]bool),
		responded: make(map[int]bool),
	}
	for _, pc := range app.registry.Established() {
		s.needed[pc.ID()] = true
		pc.SendMessage(networking.New(networking.TypeServerSaveGame, networking.HostPlayerID, pc.ID(), nil))
	}
	return s
}

func (s *waitingForSaveDataState) stateName() string { return "WaitingForSaveData" }

func (s *waitingForSaveDataState) react(ev Event) (state, bool) {
	data, ok := ev.(ClientSaveData)
	if !ok {
		return s.reactShared(ev)
	}

	id := data.Conn.ID()
	if !s.needed[id] {
		log.Printf("unsolicited save data from player %d ignored", id)
		return nil, true
	}
	if s.responded[id] {
		log.Printf("duplicate save data from player %d ignored", id)
		return nil, true
	}

	s.bundles = append(s.bundles, savegame.PlayerSaveGameData{
		PlayerName: data.Conn.PlayerName(),
		Empire:     s.app.GetPlayerEmpire(id),
		Orders:     data.Orders,
		UIData:     data.UIData,
	})
	s.responded[id] = true

	if len(s.responded) != len(s.needed) {
		return nil, true
	}
	for needed := range s.needed {
		if !s.responded[needed] {
			return nil, true
		}
	}

	if err := s.app.CommitSave(s.app.pendingSaveFilename, s.bundles); err != nil {
		log.Printf("write save %s: %v", s.app.pendingSaveFilename, err)
	} else {
		log.Printf("saved game to %s with %d player bundles", s.app.pendingSaveFilename, len(s.bundles))
	}
	s.app.pendingSaveFilename = ""
	return newTurnIdle(s.app), true
}
