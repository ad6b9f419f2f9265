// Package aiclient implements the computer player process. It dials the game
// server with its join grant, claims the seat it was spawned for, and plays
// turns until the server ends the session.
package aiclient

import (
	"context"
	"fmt"
	"log"

	"github.com/swaqvalley/freeorion/internal/game"
	"github.com/swaqvalley/freeorion/internal/networking"
)

// Client is one AI player session.
type Client struct {
	serverAddr string
	playerName string
	grant      string

	conn     *networking.Client
	playerID int
	empireID int
	turn     int
}

// New configures an AI client. The grant is what the spawning server minted;
// an empty grant still dials but the server will seat the client as a human
// candidate, if at all.
func New(serverAddr, playerName, grant string) *Client {
	return &Client{
		serverAddr: serverAddr,
		playerName: playerName,
		grant:      grant,
		playerID:   networking.InvalidPlayerID,
		empireID:   game.InvalidEmpireID,
	}
}

// Run plays the session to completion: join, then respond to the server until
// it announces the end or the connection drops.
func (c *Client) Run(ctx context.Context) error {
	conn, err := networking.Dial(ctx, c.serverAddr, c.grant)
	if err != nil {
		return fmt.Errorf("connect to server: %w", err)
	}
	c.conn = conn
	defer conn.Close()

	join := networking.New(networking.TypeJoinGame, networking.InvalidPlayerID, networking.HostPlayerID,
		networking.NamePayload{PlayerName: c.playerName})
	if err := conn.Send(join); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := conn.Read()
		if err != nil {
			return fmt.Errorf("read from server: %w", err)
		}
		done, err := c.handle(msg)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (c *Client) handle(msg networking.Message) (done bool, err error) {
	switch msg.Type {
	case networking.TypeJoinAck:
		var ack networking.AckPayload
		if err := msg.Decode(&ack); err != nil {
			return false, fmt.Errorf("decode join ack: %w", err)
		}
		c.playerID = ack.PlayerID
		log.Printf("joined as player %d", c.playerID)

	case networking.TypeGameStart:
		var start networking.GameStartPayload
		if err := msg.Decode(&start); err != nil {
			return false, fmt.Errorf("decode game start: %w", err)
		}
		c.empireID = start.EmpireID
		c.turn = start.Turn
		log.Printf("game started on turn %d, playing empire %d", c.turn, c.empireID)
		return false, c.submitOrders()

	case networking.TypeTurnProgress:
		var progress networking.TurnProgressPayload
		if err := msg.Decode(&progress); err != nil {
			return false, fmt.Errorf("decode turn progress: %w", err)
		}
		if progress.Phase == networking.NewTurn {
			c.turn = progress.Turn
			return false, c.submitOrders()
		}

	case networking.TypeServerSaveGame:
		data := networking.New(networking.TypeClientSaveData, c.playerID, networking.HostPlayerID,
			networking.ClientSaveDataPayload{Orders: game.OrderSet{}})
		if err := c.conn.Send(data); err != nil {
			return false, fmt.Errorf("send save data: %w", err)
		}

	case networking.TypeChat, networking.TypePlayerDisconnected, networking.TypeDispatchObjectID:
		// Nothing to do with these yet.

	case networking.TypeServerEndGame, networking.TypeServerDying:
		log.Printf("server ended the session (%s)", msg.Type)
		return true, nil
	}
	return false, nil
}

// submitOrders files this turn's orders. The strategy is not ambitious: an
// empty but valid order set keeps the turn moving.
func (c *Client) submitOrders() error {
	orders := networking.New(networking.TypeTurnOrders, c.playerID, networking.HostPlayerID, game.OrderSet{})
	if err := c.conn.Send(orders); err != nil {
		return fmt.Errorf("send turn orders: %w", err)
	}
	log.Printf("submitted orders for turn %d", c.turn)
	return nil
}
