package handler

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/persist"
	"github.com/emberworld/server/internal/protocol"
	"github.com/emberworld/server/internal/world"
)

// HandleCreateAccount registers a new account and character, then joins the
// world. Rejections leave the connection open so the client can retry.
func (d *Deps) HandleCreateAccount(c Conn, msg protocol.CreateAccount) {
	username := persist.NormalizeUsername(msg.Username)
	name := strings.TrimSpace(msg.CharacterName)

	if !persist.ValidUsername(username) || msg.Password == "" {
		c.SendMessage(protocol.FailedJoin{Reason: protocol.UsernameTaken})
		return
	}
	if !persist.ValidCharacterName(name) {
		c.SendMessage(protocol.FailedJoin{Reason: protocol.CharacterNameTaken})
		return
	}
	if d.Stores.Players.Exists(username) {
		c.SendMessage(protocol.FailedJoin{Reason: protocol.UsernameTaken})
		return
	}
	if err := d.Stores.Names.Reserve(name, username); err != nil {
		c.SendMessage(protocol.FailedJoin{Reason: protocol.CharacterNameTaken})
		return
	}

	rec, err := d.Stores.Players.Create(username, msg.Password, name, &persist.PlayerRecord{
		Map:      game.DefaultMap,
		Position: d.startPosition(),
	})
	if err != nil {
		// Creation failed after the name was claimed; give the name back.
		if releaseErr := d.Stores.Names.Release(name); releaseErr != nil {
			d.Log.Error("name release failed", zap.String("name", name), zap.Error(releaseErr))
		}
		if !errors.Is(err, persist.ErrExists) {
			d.Log.Error("account create failed", zap.String("username", username), zap.Error(err))
		}
		c.SendMessage(protocol.FailedJoin{Reason: protocol.UsernameTaken})
		return
	}

	d.Log.Info("account created",
		zap.String("username", username),
		zap.String("character", name),
	)
	d.joinGame(c, rec)
}

// HandleLogin authenticates an existing account and joins the world. Every
// rejection looks identical to the client so usernames cannot be probed.
func (d *Deps) HandleLogin(c Conn, msg protocol.Login) {
	username := persist.NormalizeUsername(msg.Username)

	rec, err := d.Stores.Players.Load(username)
	if err != nil {
		d.Log.Error("account load failed", zap.String("username", username), zap.Error(err))
		c.SendMessage(protocol.FailedJoin{Reason: protocol.LoginIncorrect})
		return
	}
	if rec == nil {
		d.Stores.Players.ValidateMissing(msg.Password)
		c.SendMessage(protocol.FailedJoin{Reason: protocol.LoginIncorrect})
		return
	}
	if !d.Stores.Players.ValidatePassword(rec.PasswordHash, msg.Password) {
		c.SendMessage(protocol.FailedJoin{Reason: protocol.LoginIncorrect})
		return
	}
	if d.World.IsOnline(username) {
		d.Log.Warn("login refused, account already online", zap.String("username", username))
		c.SendMessage(protocol.FailedJoin{Reason: protocol.LoginIncorrect})
		return
	}

	d.joinGame(c, rec)
}

// joinGame puts an authenticated account into the world: allocate the entity,
// recover a broken saved map, run the warp flow onto the saved position, and
// greet the player.
func (d *Deps) joinGame(c Conn, rec *persist.PlayerRecord) {
	id := d.World.AllocateEntity()
	p := world.NewPlayer(c.SessionID(), c, id, rec)

	if _, err := d.World.EnsureMap(p.Map); err != nil {
		d.Log.Warn("saved map unusable, recovering to start",
			zap.String("username", p.Username),
			zap.Uint64("map", uint64(p.Map)),
			zap.Error(err),
		)
		p.Map = game.DefaultMap
		p.Position = d.startPosition()
		p.Dirty = true
	}

	c.SetIdentity(p.Username, p.Name)
	c.SetState(protocol.StatePlaying)
	d.World.AddPlayer(p)

	c.SendMessage(protocol.JoinGame{ID: id})
	if err := d.Warp(p, p.Map, nil, nil, true); err != nil {
		d.Log.Error("join warp failed", zap.String("username", p.Username), zap.Error(err))
	}

	c.SendMessage(protocol.ChatLog{Channel: protocol.ChannelServer, Text: d.Config.Server.MOTD})
	d.BroadcastExcept(protocol.ChatLog{
		Channel: protocol.ChannelServer,
		Text:    p.Name + " has joined the game.",
	}, p.ID)

	d.Log.Info("player joined",
		zap.String("username", p.Username),
		zap.String("character", p.Name),
		zap.Uint64("entity", uint64(id)),
	)
}

// HandleDisconnect tears down the in-world presence of a dead session: remove
// the player, tell the map, tell everyone, save the record.
func (d *Deps) HandleDisconnect(sessionID uint64) {
	p := d.World.RemovePlayer(sessionID)
	if p == nil {
		return
	}

	d.SendToMap(p.Map, protocol.PlayerData{ID: p.ID})
	d.Broadcast(protocol.ChatLog{
		Channel: protocol.ChannelServer,
		Text:    p.Name + " has left the game.",
	})

	if err := d.Stores.Players.Save(p.Record()); err != nil {
		d.Log.Error("player save on disconnect failed",
			zap.String("username", p.Username),
			zap.Error(err),
		)
	}

	d.Log.Info("player left",
		zap.String("username", p.Username),
		zap.String("character", p.Name),
	)
}
