// emberbot is a headless test client: it logs in (creating the account on
// first run), wanders the world with predicted movement, and prints what it
// hears. Useful for smoke testing a running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/emberworld/server/internal/client"
	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/protocol"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://127.0.0.1:7667/ws", "server websocket address")
	user := flag.String("user", "bot", "account username")
	pass := flag.String("pass", "botpass", "account password")
	name := flag.String("name", "Bot", "character name")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	c, err := client.Dial(ctx, *addr, log)
	cancel()
	if err != nil {
		return err
	}
	defer c.Close()

	id, err := join(c, *user, *pass, *name, log)
	if err != nil {
		return err
	}
	log.Info("joined", zap.Uint64("entity", uint64(id)))

	predictor := client.NewPredictor(game.State{ID: id, MaxSpeed: game.RunSpeed})
	remotes := client.NewRemoteView()
	maps := client.NewMapCache()
	start := time.Now()

	states := make(chan protocol.Message, 256)
	readErr := make(chan error, 1)
	go func() {
		for {
			msg, err := c.Recv()
			if err != nil {
				readErr <- err
				return
			}
			states <- msg
		}
	}()

	tickRate := float64(game.TickRate)
	ticker := time.NewTicker(time.Duration(float64(time.Second) / tickRate))
	defer ticker.Stop()

	heading := game.V(1, 0)
	for {
		select {
		case err := <-readErr:
			return err

		case msg := <-states:
			switch m := msg.(type) {
			case protocol.PlayerState:
				if m.State.ID == id {
					predictor.Reconcile(m.State)
				} else {
					remotes.Observe(m.State, time.Since(start).Seconds())
				}
			case protocol.PlayerData:
				if m.Player == nil {
					remotes.Remove(m.ID)
				}
			case protocol.ChangeMap:
				if maps.NeedsFetch(m) {
					if err := c.Send(protocol.RequestMap{}); err != nil {
						return err
					}
				}
			case protocol.MapData:
				maps.Store(m.Map)
			case protocol.ChatLog:
				log.Info("chat", zap.String("channel", string(m.Channel)), zap.String("text", m.Text))
			}

		case <-ticker.C:
			// Change heading now and then so the bot wanders.
			if rand.Intn(90) == 0 {
				angle := rand.Float64() * 2 * math.Pi
				heading = game.V(math.Cos(angle), math.Sin(angle))
			}
			in := predictor.Step(heading.Scale(game.Acceleration), false, game.TickInterval)
			if err := c.Send(protocol.MoveInput{Input: in}); err != nil {
				return err
			}
		}
	}
}

// join logs in, falling back to account creation when the login is rejected.
func join(c *client.Client, user, pass, name string, log *zap.Logger) (game.Entity, error) {
	if err := c.Send(protocol.Login{Username: user, Password: pass}); err != nil {
		return 0, err
	}

	for {
		msg, err := c.Recv()
		if err != nil {
			return 0, err
		}
		switch m := msg.(type) {
		case protocol.JoinGame:
			return m.ID, nil
		case protocol.FailedJoin:
			if m.Reason != protocol.LoginIncorrect {
				return 0, fmt.Errorf("join failed: %s", m.Reason.Message())
			}
			log.Info("login rejected, creating account", zap.String("user", user))
			err := c.Send(protocol.CreateAccount{
				Username:      user,
				Password:      pass,
				CharacterName: name,
			})
			if err != nil {
				return 0, err
			}
		}
	}
}
