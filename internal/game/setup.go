package game

// GalaxySize selects how many star systems are generated.
type GalaxySize string

const (
	GalaxyTiny   GalaxySize = "tiny"
	GalaxySmall  GalaxySize = "small"
	GalaxyMedium GalaxySize = "medium"
	GalaxyLarge  GalaxySize = "large"
)

// SystemCount returns the number of systems generated for the size.
func (s GalaxySize) SystemCount() int {
	switch s {
	case GalaxyTiny:
		return 10
	case GalaxySmall:
		return 25
	case GalaxyLarge:
		return 100
	default:
		return 50
	}
}

// GalaxySetup carries the generation parameters negotiated in the lobby.
type GalaxySetup struct {
	Size              GalaxySize `json:"size"`
	Shape             string     `json:"shape"`
	Age               string     `json:"age"`
	StarlaneFrequency string     `json:"starlane_frequency"`
	PlanetDensity     string     `json:"planet_density"`
	SpecialsFrequency string     `json:"specials_frequency"`
	Seed              int64      `json:"seed"`
}

// DefaultGalaxySetup returns the setup a fresh lobby starts from.
func DefaultGalaxySetup() GalaxySetup {
	return GalaxySetup{
		Size:              GalaxyMedium,
		Shape:             "spiral",
		Age:               "mature",
		StarlaneFrequency: "medium",
		PlanetDensity:     "medium",
		SpecialsFrequency: "medium",
	}
}

// PlayerSetupData is one lobby roster entry for a connected or expected player.
type PlayerSetupData struct {
	PlayerID         int    `json:"player_id"`
	PlayerName       string `json:"player_name"`
	EmpireName       string `json:"empire_name"`
	EmpireColor      Color  `json:"empire_color"`
	SaveGameEmpireID int    `json:"save_game_empire_id"`
}

// NewPlayerSetupData seeds a roster entry with the default palette color and
// an unset save-game empire choice.
func NewPlayerSetupData(playerID int, playerName string) PlayerSetupData {
	return PlayerSetupData{
		PlayerID:         playerID,
		PlayerName:       playerName,
		EmpireColor:      EmpireColors()[0],
		SaveGameEmpireID: InvalidEmpireID,
	}
}

// SinglePlayerSetupData configures a hosted single-player game.
type SinglePlayerSetupData struct {
	NewGame        bool        `json:"new_game"`
	Filename       string      `json:"filename"`
	HostPlayerName string      `json:"host_player_name"`
	EmpireName     string      `json:"empire_name"`
	EmpireColor    Color       `json:"empire_color"`
	AIs            int         `json:"ais"`
	Galaxy         GalaxySetup `json:"galaxy"`
}

// SaveGameEmpireData is a read-only summary of one empire stored in a save
// file, shown in the lobby so players can claim empires from a loaded game.
type SaveGameEmpireData struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PlayerName string `json:"player_name"`
	Color      Color  `json:"color"`
}
