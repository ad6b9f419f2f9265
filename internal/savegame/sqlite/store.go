// Package sqlite persists save-game checkpoints as standalone SQLite files.
//
// Each save file is its own database: a single game row, one players row per
// bundle, and the serialized universe. Saving a file replaces it whole; the
// protocol never appends to an existing checkpoint.
package sqlite

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/swaqvalley/freeorion/internal/platform/storage/sqlitemigrate"

	"github.com/swaqvalley/freeorion/internal/game"
	"github.com/swaqvalley/freeorion/internal/savegame"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("save path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open save file: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping save file: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrationsFS, "migrations"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply save schema: %w", err)
	}
	return sqlDB, nil
}

// Save writes a complete checkpoint to path, replacing any previous file.
func Save(path string, turn int, players []savegame.PlayerSaveGameData, universe *game.Universe) error {
	if universe == nil {
		return fmt.Errorf("universe is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure save dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replace save file: %w", err)
	}

	sqlDB, err := open(path)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO game (id, turn, saved_at) VALUES (1, ?, ?)",
		turn, toMillis(time.Now()),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("write game row: %w", err)
	}

	for i, player := range players {
		empireJSON, err := json.Marshal(player.Empire)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("marshal empire for %s: %w", player.PlayerName, err)
		}
		ordersJSON, err := json.Marshal(player.Orders)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("marshal orders for %s: %w", player.PlayerName, err)
		}
		var uiData any
		if len(player.UIData) > 0 {
			uiData = string(player.UIData)
		}
		if _, err := tx.Exec(
			"INSERT INTO players (position, player_name, empire, orders, ui_data) VALUES (?, ?, ?, ?, ?)",
			i, player.PlayerName, string(empireJSON), string(ordersJSON), uiData,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write player row for %s: %w", player.PlayerName, err)
		}
	}

	universeJSON, err := json.Marshal(universe)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("marshal universe: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO universe (id, state) VALUES (1, ?)",
		string(universeJSON),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("write universe row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load restores a complete checkpoint from path.
func Load(path string) (*savegame.Game, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat save file: %w", err)
	}
	sqlDB, err := open(path)
	if err != nil {
		return nil, err
	}
	defer sqlDB.Close()

	loaded := &savegame.Game{}
	if err := sqlDB.QueryRow("SELECT turn FROM game WHERE id = 1").Scan(&loaded.Turn); err != nil {
		return nil, fmt.Errorf("read game row: %w", err)
	}

	players, err := readPlayers(sqlDB)
	if err != nil {
		return nil, err
	}
	loaded.Players = players

	var universeJSON string
	if err := sqlDB.QueryRow("SELECT state FROM universe WHERE id = 1").Scan(&universeJSON); err != nil {
		return nil, fmt.Errorf("read universe row: %w", err)
	}
	universe := game.NewUniverse()
	if err := json.Unmarshal([]byte(universeJSON), universe); err != nil {
		return nil, fmt.Errorf("unmarshal universe: %w", err)
	}
	loaded.Universe = universe

	return loaded, nil
}

// EmpireHeaders reads only the per-empire summaries from a save file, for
// the lobby's empire-selection list.
func EmpireHeaders(path string) ([]game.SaveGameEmpireData, error) {
	loaded, err := Load(path)
	if err != nil {
		return nil, err
	}
	headers := make([]game.SaveGameEmpireData, 0, len(loaded.Players))
	for _, player := range loaded.Players {
		if player.Empire == nil {
			continue
		}
		headers = append(headers, game.SaveGameEmpireData{
			ID:         player.Empire.ID,
			Name:       player.Empire.Name,
			PlayerName: player.Empire.PlayerName,
			Color:      player.Empire.Color,
		})
	}
	return headers, nil
}

func readPlayers(sqlDB *sql.DB) ([]savegame.PlayerSaveGameData, error) {
	rows, err := sqlDB.Query("SELECT player_name, empire, orders, ui_data FROM players ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("read player rows: %w", err)
	}
	defer rows.Close()

	var players []savegame.PlayerSaveGameData
	for rows.Next() {
		var (
			player     savegame.PlayerSaveGameData
			empireJSON string
			ordersJSON string
			uiData     sql.NullString
		)
		if err := rows.Scan(&player.PlayerName, &empireJSON, &ordersJSON, &uiData); err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		empire := &game.Empire{}
		if err := json.Unmarshal([]byte(empireJSON), empire); err != nil {
			return nil, fmt.Errorf("unmarshal empire for %s: %w", player.PlayerName, err)
		}
		player.Empire = empire
		if err := json.Unmarshal([]byte(ordersJSON), &player.Orders); err != nil {
			return nil, fmt.Errorf("unmarshal orders for %s: %w", player.PlayerName, err)
		}
		if uiData.Valid {
			player.UIData = json.RawMessage(uiData.String)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player rows: %w", err)
	}
	return players, nil
}
