// Package savegame defines the checkpoint bundles written to and restored
// from save files.
package savegame

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/swaqvalley/freeorion/internal/game"
)

// FileExtension is the suffix save files carry inside the save directory.
const FileExtension = ".sav"

// PlayerSaveGameData bundles one player's contribution to a checkpoint:
// identity, empire, submitted orders, and an optional UI snapshot. Exactly
// one bundle per expected player must exist before a save or load completes.
type PlayerSaveGameData struct {
	PlayerName string          `json:"player_name"`
	Empire     *game.Empire    `json:"empire"`
	Orders     game.OrderSet   `json:"orders"`
	UIData     json.RawMessage `json:"ui_data,omitempty"`
}

// Game is a fully restored checkpoint.
type Game struct {
	Turn     int
	Players  []PlayerSaveGameData
	Universe *game.Universe
}

// RenameHost reassigns the first saved bundle, by convention the hosting
// player's, to the given name so a host can resume under a different name.
func (g *Game) RenameHost(name string) {
	if len(g.Players) == 0 || name == "" {
		return
	}
	g.Players[0].PlayerName = name
	if g.Players[0].Empire != nil {
		g.Players[0].Empire.PlayerName = name
	}
}

// ListFiles returns the selectable save files in dir, sorted by name.
// A missing directory is treated as empty: no game has been saved yet.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read save dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// Filename normalizes a requested save name into a path under dir, forcing
// the save extension and stripping any directory components a client sent.
func Filename(dir, requested string) string {
	base := filepath.Base(strings.TrimSpace(requested))
	if !strings.HasSuffix(base, FileExtension) {
		base += FileExtension
	}
	return filepath.Join(dir, base)
}
