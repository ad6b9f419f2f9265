// Package server implements the session automaton that carries a game from
// first host request through lobby, joining, turns, saves, and shutdown.
//
// The automaton is single-threaded: the transport serializes everything into
// one inbound queue, and each event runs to completion before the next is
// dispatched, so the shared session context needs no locking.
package server

import (
	"fmt"
	"log"

	"github.com/swaqvalley/freeorion/internal/auth"
	"github.com/swaqvalley/freeorion/internal/game"
	"github.com/swaqvalley/freeorion/internal/networking"
	apperrors "github.com/swaqvalley/freeorion/internal/platform/errors"
	"github.com/swaqvalley/freeorion/internal/savegame"
	savestore "github.com/swaqvalley/freeorion/internal/savegame/sqlite"
)

// AISpawner launches one AI client process that will dial back and join.
type AISpawner interface {
	SpawnAI(serverAddr, playerName, grant string) error
}

// ExitFunc terminates the server process with the given status code.
type ExitFunc func(code int)

// App is the session context shared by every automaton state: the connection
// registry, the simulation, per-empire turn orders, and the save plumbing.
// States mutate it directly; ownership of transient setup data (lobby data,
// loaded bundles) is handed between states through their constructors.
type App struct {
	registry *networking.Registry
	empires  *game.EmpireManager
	universe *game.Universe

	orders        map[int]game.OrderSet // empire ID -> submitted orders
	playerEmpires map[int]int           // player ID -> empire ID
	currentTurn   int

	singlePlayer bool
	losers       map[int]bool // player IDs recorded as gracefully out
	aiIDs        map[int]bool // player IDs belonging to AI connections

	nextPlayerID int
	aiNameSerial int

	saveDir             string
	pendingSaveFilename string

	serverAddr string
	grants     *auth.JoinGrantIssuer
	spawner    AISpawner
	exit       ExitFunc
}

// NewApp creates the session context.
//
// serverAddr is the address spawned AI clients dial back to; exit is invoked
// for host-loss and end-game termination and must not return.
func NewApp(registry *networking.Registry, saveDir, serverAddr string, grants *auth.JoinGrantIssuer, spawner AISpawner, exit ExitFunc) *App {
	return &App{
		registry:      registry,
		empires:       game.NewEmpireManager(),
		universe:      game.NewUniverse(),
		orders:        make(map[int]game.OrderSet),
		playerEmpires: make(map[int]int),
		losers:        make(map[int]bool),
		aiIDs:         make(map[int]bool),
		nextPlayerID:  networking.HostPlayerID + 1,
		saveDir:       saveDir,
		serverAddr:    serverAddr,
		grants:        grants,
		spawner:       spawner,
		exit:          exit,
	}
}

// Registry exposes the connection registry to states and tests.
func (a *App) Registry() *networking.Registry { return a.registry }

// CurrentTurn returns the turn currently being played.
func (a *App) CurrentTurn() int { return a.currentTurn }

// NextPlayerID hands out the next player ID. IDs increase monotonically and
// are never reused within a session, even after disconnections.
func (a *App) NextPlayerID() int {
	id := a.nextPlayerID
	a.nextPlayerID++
	return id
}

// Exit disconnects everyone and terminates the process.
func (a *App) Exit(code int) {
	a.registry.DisconnectAll()
	a.exit(code)
}

// Fail logs a domain error from pc and applies its code's disposition: drop
// the offending connection, end the session, or just discard the event.
func (a *App) Fail(pc *networking.PlayerConnection, err error) {
	log.Printf("player %d: %v", pc.ID(), err)
	switch apperrors.CodeOf(err).Disposition() {
	case apperrors.DropConnection:
		a.registry.Remove(pc)
	case apperrors.EndSession:
		a.Exit(1)
	}
}

// GetPlayerEmpire returns the empire played by the given player, or nil.
func (a *App) GetPlayerEmpire(playerID int) *game.Empire {
	empireID, ok := a.playerEmpires[playerID]
	if !ok {
		return nil
	}
	return a.empires.Lookup(empireID)
}

// SetEmpireTurnOrders stores an empire's submitted orders for this turn.
func (a *App) SetEmpireTurnOrders(empireID int, orders game.OrderSet) {
	a.orders[empireID] = orders
}

// AllOrdersReceived reports whether every empire has submitted orders.
func (a *App) AllOrdersReceived() bool {
	if a.empires.Len() == 0 {
		return false
	}
	for _, id := range a.empires.IDs() {
		if _, ok := a.orders[id]; !ok {
			return false
		}
	}
	return true
}

// ProcessTurns applies every empire's orders, advances the simulation one
// turn, and announces the new turn to all players.
func (a *App) ProcessTurns() {
	for _, empireID := range a.empires.IDs() {
		if err := a.universe.ApplyOrders(a.orders[empireID]); err != nil {
			// Orders that no longer apply (e.g. the target died this turn)
			// are skipped, not fatal: the issuer validated as the right
			// empire when the set was accepted.
			log.Printf("process orders for empire %d: %v", empireID, err)
		}
	}
	a.orders = make(map[int]game.OrderSet)
	a.currentTurn++
	a.recordEliminations()

	progress := networking.New(networking.TypeTurnProgress, networking.HostPlayerID, networking.Broadcast,
		networking.TurnProgressPayload{Phase: networking.NewTurn, Turn: a.currentTurn})
	a.registry.Broadcast(progress)
	log.Printf("turn %d processed, %d empires", a.currentTurn, a.empires.Len())
}

// recordEliminations retires empires that own nothing anymore. The player is
// recorded as a graceful loser so a later disconnect does not trigger the
// forced end-game broadcast.
func (a *App) recordEliminations() {
	for _, empireID := range a.empires.IDs() {
		if a.universe.OwnedObjectCount(empireID) > 0 {
			continue
		}
		for playerID, owned := range a.playerEmpires {
			if owned == empireID {
				a.losers[playerID] = true
				log.Printf("empire %d eliminated, player %d is out", empireID, playerID)
			}
		}
		a.empires.Remove(empireID)
	}
}

// OnlyAIsRemain reports whether no human connections are left: either the
// registry is empty or every remaining established connection is an AI.
func (a *App) OnlyAIsRemain() bool {
	if a.registry.Empty() {
		return true
	}
	established := a.registry.Established()
	if len(established) == 0 {
		// Only unestablished sockets remain; no humans are playing.
		return true
	}
	for _, pc := range established {
		if !a.aiIDs[pc.ID()] {
			return false
		}
	}
	return true
}

// CreateAIClients mints join grants and spawns the requested number of AI
// client processes, returning the set of player names they will join under.
func (a *App) CreateAIClients(count int) map[string]bool {
	expected := make(map[string]bool, count)
	for i := 0; i < count; i++ {
		a.aiNameSerial++
		name := fmt.Sprintf("AI_%d", a.aiNameSerial)
		expected[name] = true

		if a.spawner == nil {
			log.Printf("no AI spawner configured; expecting %s to join on its own", name)
			continue
		}
		grant := ""
		if a.grants != nil {
			minted, err := a.grants.Mint(name)
			if err != nil {
				log.Printf("mint join grant for %s: %v", name, err)
			} else {
				grant = minted
			}
		}
		if err := a.spawner.SpawnAI(a.serverAddr, name, grant); err != nil {
			// A failed spawn stalls the joiner gate; there is no timeout, so
			// surface it loudly for the operator.
			log.Printf("spawn AI client %s: %v", name, err)
		}
	}
	return expected
}

// NewGameInit creates one empire per established connection, generates the
// universe, and sends every player their game-start message.
func (a *App) NewGameInit(galaxy game.GalaxySetup, roster []game.PlayerSetupData) error {
	a.empires.RemoveAll()
	a.orders = make(map[int]game.OrderSet)
	a.playerEmpires = make(map[int]int)

	rosterByName := make(map[string]game.PlayerSetupData, len(roster))
	for _, entry := range roster {
		rosterByName[entry.PlayerName] = entry
	}

	colors := game.EmpireColors()
	established := a.registry.Established()
	empires := make([]*game.Empire, 0, len(established))
	for i, pc := range established {
		empire := &game.Empire{
			ID:         pc.ID(),
			Name:       fmt.Sprintf("Empire of %s", pc.PlayerName()),
			PlayerName: pc.PlayerName(),
			Color:      colors[i%len(colors)],
		}
		if entry, ok := rosterByName[pc.PlayerName()]; ok && entry.EmpireName != "" {
			empire.Name = entry.EmpireName
			empire.Color = entry.EmpireColor
		}
		if err := a.empires.Insert(empire); err != nil {
			return fmt.Errorf("insert empire for %s: %w", pc.PlayerName(), err)
		}
		a.playerEmpires[pc.ID()] = empire.ID
		empires = append(empires, empire)
	}

	if galaxy.Seed == 0 {
		seed, err := game.NewGalaxySeed()
		if err != nil {
			return fmt.Errorf("generate galaxy seed: %w", err)
		}
		galaxy.Seed = seed
	}
	a.universe = game.NewUniverse()
	if err := a.universe.Generate(galaxy, empires); err != nil {
		return fmt.Errorf("generate universe: %w", err)
	}
	a.currentTurn = 1

	for _, pc := range established {
		pc.SendMessage(networking.New(networking.TypeGameStart, networking.HostPlayerID, pc.ID(),
			networking.GameStartPayload{
				Turn:         a.currentTurn,
				EmpireID:     a.playerEmpires[pc.ID()],
				SinglePlayer: a.singlePlayer,
				Universe:     a.universe,
			}))
	}
	log.Printf("new game initialized with %d empires on turn %d", len(empires), a.currentTurn)
	return nil
}

// LoadGameInit restores a loaded checkpoint: empires and universe come from
// the save bundles, and each connection is matched to its empire by player
// name. Saved orders ride along in the game-start message so clients resume
// where they left off.
func (a *App) LoadGameInit(loaded *savegame.Game) error {
	if loaded == nil || loaded.Universe == nil {
		return fmt.Errorf("loaded game is required")
	}
	a.empires.RemoveAll()
	a.orders = make(map[int]game.OrderSet)
	a.playerEmpires = make(map[int]int)
	a.universe = loaded.Universe
	a.currentTurn = loaded.Turn

	savedOrders := make(map[int]game.OrderSet, len(loaded.Players))
	for _, bundle := range loaded.Players {
		if bundle.Empire == nil {
			return fmt.Errorf("save bundle for %s has no empire", bundle.PlayerName)
		}
		if err := a.empires.Insert(bundle.Empire); err != nil {
			return fmt.Errorf("insert saved empire %d: %w", bundle.Empire.ID, err)
		}
		for _, pc := range a.registry.Established() {
			if pc.PlayerName() == bundle.PlayerName {
				a.playerEmpires[pc.ID()] = bundle.Empire.ID
				savedOrders[pc.ID()] = bundle.Orders
				break
			}
		}
	}

	for _, pc := range a.registry.Established() {
		empireID, ok := a.playerEmpires[pc.ID()]
		if !ok {
			return fmt.Errorf("no saved empire for player %q", pc.PlayerName())
		}
		pc.SendMessage(networking.New(networking.TypeGameStart, networking.HostPlayerID, pc.ID(),
			networking.GameStartPayload{
				Turn:         a.currentTurn,
				EmpireID:     empireID,
				SinglePlayer: a.singlePlayer,
				Universe:     a.universe,
				Orders:       savedOrders[pc.ID()],
			}))
	}
	log.Printf("loaded game initialized with %d empires on turn %d", a.empires.Len(), a.currentTurn)
	return nil
}

// SavePath resolves a client-requested save name under the save directory.
func (a *App) SavePath(requested string) string {
	return savegame.Filename(a.saveDir, requested)
}

// LoadSave reads a checkpoint from the save directory.
func (a *App) LoadSave(filename string) (*savegame.Game, error) {
	return savestore.Load(a.SavePath(filename))
}

// CommitSave writes the collected bundles and current turn to a checkpoint.
func (a *App) CommitSave(filename string, bundles []savegame.PlayerSaveGameData) error {
	return savestore.Save(a.SavePath(filename), a.currentTurn, bundles, a.universe)
}

// SaveEmpireHeaders summarizes the empires stored in a selectable save.
func (a *App) SaveEmpireHeaders(filename string) ([]game.SaveGameEmpireData, error) {
	return savestore.EmpireHeaders(a.SavePath(filename))
}

// ListSaves returns the selectable save files for the lobby.
func (a *App) ListSaves() []string {
	files, err := savegame.ListFiles(a.saveDir)
	if err != nil {
		log.Printf("list save files: %v", err)
		return nil
	}
	return files
}
