package game

// LobbyData is the evolving multiplayer session configuration negotiated
// before game start. The server re-broadcasts it after every mutation.
type LobbyData struct {
	NewGame         bool                 `json:"new_game"`
	Galaxy          GalaxySetup          `json:"galaxy"`
	Players         []PlayerSetupData    `json:"players"`
	AIs             []PlayerSetupData    `json:"ais"`
	SaveGames       []string             `json:"save_games"`
	SaveFileIndex   int                  `json:"save_file_index"`
	SaveGameEmpires []SaveGameEmpireData `json:"save_game_empires"`
}

// NewLobbyData creates lobby data for a fresh multiplayer setup.
func NewLobbyData() *LobbyData {
	return &LobbyData{
		NewGame:       true,
		Galaxy:        DefaultGalaxySetup(),
		SaveFileIndex: -1,
	}
}

// Merge copies the subset of fields clients are permitted to change and
// reports whether the save-file selection moved to a different valid index.
//
// When the selection changes, every player's save-game empire choice is
// invalidated: the newly selected save may not contain the same empire IDs.
func (d *LobbyData) Merge(incoming LobbyData) (saveFileChanged bool) {
	d.NewGame = incoming.NewGame
	d.Galaxy = incoming.Galaxy
	d.Players = incoming.Players
	d.AIs = incoming.AIs

	if incoming.SaveFileIndex != d.SaveFileIndex &&
		incoming.SaveFileIndex >= 0 && incoming.SaveFileIndex < len(d.SaveGames) {
		d.SaveFileIndex = incoming.SaveFileIndex
		for i := range d.Players {
			d.Players[i].SaveGameEmpireID = InvalidEmpireID
		}
		saveFileChanged = true
	}
	return saveFileChanged
}

// SelectedSaveFile returns the currently selected save file name, if any.
func (d *LobbyData) SelectedSaveFile() (string, bool) {
	if d.SaveFileIndex < 0 || d.SaveFileIndex >= len(d.SaveGames) {
		return "", false
	}
	return d.SaveGames[d.SaveFileIndex], true
}

// RemovePlayerAt drops the roster entry at the given position, matching the
// connection iteration order used by the lobby.
func (d *LobbyData) RemovePlayerAt(i int) {
	if i < 0 || i >= len(d.Players) {
		return
	}
	d.Players = append(d.Players[:i], d.Players[i+1:]...)
}
