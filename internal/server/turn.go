package server

import (
	"fmt"
	"log"
	"strings"

	"github.com/swaqvalley/freeorion/internal/game"
	"github.com/swaqvalley/freeorion/internal/networking"
	apperrors "github.com/swaqvalley/freeorion/internal/platform/errors"
)

// turnBase carries the reactions every in-game state shares: order
// submission, object ID dispatch, chat, mid-game reload, and graceful end.
type turnBase struct {
	app *App
}

func (b *turnBase) reactShared(ev Event) (state, bool) {
	switch ev := ev.(type) {
	case TurnOrders:
		return b.onTurnOrders(ev)
	case RequestObjectID:
		ev.Conn.SendMessage(networking.New(networking.TypeDispatchObjectID, networking.HostPlayerID, ev.Conn.ID(),
			networking.ObjectIDPayload{ObjectID: b.app.universe.GenerateObjectID()}))
		return nil, true
	case PlayerChat:
		b.onPlayerChat(ev)
		return nil, true
	case LoadSPGame:
		return b.onLoadSPGame(ev)
	case EndGame:
		return b.onEndGame(ev)
	}
	return nil, false
}

func (b *turnBase) onTurnOrders(ev TurnOrders) (state, bool) {
	empire := b.app.GetPlayerEmpire(ev.Conn.ID())
	if empire == nil {
		b.app.Fail(ev.Conn, apperrors.New(apperrors.CodeOrderIssuerInvalid, "turn orders from a player without an empire"))
		return nil, true
	}
	for _, id := range ev.Orders.IDs() {
		if issuer := ev.Orders[id].IssuedBy(); issuer != empire.ID {
			b.app.Fail(ev.Conn, apperrors.WithMetadata(apperrors.CodeOrderIssuerInvalid,
				"turn orders issued for another empire",
				map[string]string{
					"OrderID": fmt.Sprint(id),
					"Issuer":  fmt.Sprint(issuer),
					"Empire":  fmt.Sprint(empire.ID),
				}))
			return nil, true
		}
	}

	ev.Conn.SendMessage(networking.New(networking.TypeTurnProgress, networking.HostPlayerID, ev.Conn.ID(),
		networking.TurnProgressPayload{Phase: networking.WaitingForPlayers, Turn: b.app.currentTurn}))
	b.app.SetEmpireTurnOrders(empire.ID, ev.Orders)
	log.Printf("empire %d submitted %d orders for turn %d", empire.ID, len(ev.Orders), b.app.currentTurn)

	if b.app.AllOrdersReceived() {
		b.app.ProcessTurns()
		// Re-enter the idle sub-state: a turn rollover abandons any save
		// collection still in flight.
		return newTurnIdle(b.app), true
	}
	return nil, true
}

// onPlayerChat relays in-game chat. A comma-separated list of player names
// before the first colon addresses the line to those players only; a single
// unknown name drops the whole line. Unaddressed lines go to everyone.
func (b *turnBase) onPlayerChat(ev PlayerChat) {
	text := ev.Text
	targets := make(map[string]bool)

	if idx := strings.Index(text, ":"); idx >= 0 {
		names := make([]string, 0, 2)
		for _, tok := range strings.Split(text[:idx], ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				names = append(names, tok)
			}
		}
		if len(names) > 0 {
			for _, name := range names {
				found := false
				for _, pc := range b.app.registry.Established() {
					if pc.PlayerName() == name {
						found = true
						break
					}
				}
				if !found {
					log.Printf("chat from %q addressed unknown player %q, dropped", ev.Conn.PlayerName(), name)
					return
				}
				targets[name] = true
			}
			text = strings.TrimSpace(text[idx+1:])
			if text == "" {
				return
			}
		}
	}

	var color game.Color
	if empire := b.app.GetPlayerEmpire(ev.Conn.ID()); empire != nil {
		color = empire.Color
	}
	payload := networking.ChatPayload{
		From:    ev.Conn.PlayerName(),
		Text:    text,
		Whisper: len(targets) > 0,
		Color:   color,
	}
	for _, pc := range b.app.registry.Established() {
		if len(targets) > 0 && !targets[pc.PlayerName()] {
			continue
		}
		pc.SendMessage(networking.New(networking.TypeChat, ev.Conn.ID(), pc.ID(), payload))
	}
}

func (b *turnBase) onLoadSPGame(ev LoadSPGame) (state, bool) {
	if !ev.Conn.Host() {
		b.app.Fail(ev.Conn, apperrors.New(apperrors.CodeNotHost, "only the host may reload a game"))
		return nil, true
	}
	b.app.empires.RemoveAll()
	b.app.orders = make(map[int]game.OrderSet)
	b.app.playerEmpires = make(map[int]int)
	b.app.singlePlayer = true

	setup := game.SinglePlayerSetupData{
		NewGame:        false,
		Filename:       ev.Filename,
		HostPlayerName: ev.Conn.PlayerName(),
	}
	log.Printf("host reloading single-player save %s", ev.Filename)
	joiners := newWaitingForSPJoiners(b.app, setup)
	if joiners.ready {
		return newTurnIdle(b.app), true
	}
	return joiners, true
}

func (b *turnBase) onEndGame(ev EndGame) (state, bool) {
	if !ev.Conn.Host() {
		b.app.Fail(ev.Conn, apperrors.New(apperrors.CodeNotHost, "only the host may end the game"))
		return nil, true
	}
	for _, pc := range b.app.registry.Established() {
		if pc.ID() != ev.Conn.ID() {
			pc.SendMessage(networking.New(networking.TypeServerEndGame, networking.HostPlayerID, pc.ID(), nil))
		}
		pc.SendMessage(networking.New(networking.TypeServerDying, networking.HostPlayerID, pc.ID(), nil))
	}
	log.Printf("host ended the game")
	b.app.Exit(0)
	return nil, true
}

// turnIdleState plays turns: orders accumulate until every empire has
// submitted, and the host may checkpoint between collections.
type turnIdleState struct {
	turnBase
}

func newTurnIdle(app *App) *turnIdleState {
	return &turnIdleState{turnBase{app: app}}
}

func (s *turnIdleState) stateName() string { return "WaitingForTurnEnd" }

func (s *turnIdleState) react(ev Event) (state, bool) {
	if req, ok := ev.(SaveGameRequest); ok {
		if !req.Conn.Host() {
			s.app.Fail(req.Conn, apperrors.New(apperrors.CodeNotHost, "only the host may save the game"))
			return nil, true
		}
		s.app.pendingSaveFilename = req.Filename
		return newWaitingForSaveData(s.app), true
	}
	return s.reactShared(ev)
}
