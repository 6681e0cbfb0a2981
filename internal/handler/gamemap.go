package handler

import (
	"go.uber.org/zap"

	"github.com/emberworld/server/internal/protocol"
)

// HandleRequestMap sends the full data of the player's current map, used when
// the client's cached copy is missing or stale.
func (d *Deps) HandleRequestMap(c Conn, _ protocol.RequestMap) {
	p := d.player(c)
	if p == nil {
		return
	}
	m := d.World.Map(p.Map)
	if m == nil {
		return
	}
	c.SendMessage(protocol.MapData{Map: m})
}

// HandleSaveMap accepts an edited map, persists it, and pushes the new data
// to everyone standing on it. An invalid submission is rejected whole; the
// live map is never touched by a bad save.
func (d *Deps) HandleSaveMap(c Conn, msg protocol.SaveMap) {
	p := d.player(c)
	if p == nil || msg.Map == nil {
		return
	}

	m := msg.Map
	// A client can only ever edit the map it is standing on.
	m.ID = p.Map

	if err := m.Validate(); err != nil {
		d.Log.Warn("map save rejected",
			zap.String("username", p.Username),
			zap.Uint64("map", uint64(p.Map)),
			zap.Error(err),
		)
		c.SendMessage(protocol.ChatLog{
			Channel: protocol.ChannelError,
			Text:    "Map save rejected: " + err.Error(),
		})
		return
	}

	m.Settings.CacheKey = uint64(d.Now().Unix())
	m.UpdateAutotileCache()

	if err := d.World.ReplaceMap(m); err != nil {
		d.Log.Error("map save failed",
			zap.Uint64("map", uint64(m.ID)),
			zap.Error(err),
		)
	}

	d.SendToMap(m.ID, protocol.MapData{Map: m})
}
